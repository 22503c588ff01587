package model

import "fmt"

// Category is one evaluation dimension. Label goes into the scoring prompt,
// Title into the decision prompt and the report email.
type Category struct {
	Key     string
	Title   string
	Label   string
	Context func(DeckSubmission) string
}

// Categories lists the evaluation dimensions in the order they are scored.
var Categories = []Category{
	{
		Key:   "market_size",
		Title: "Market Size",
		Label: "Market Size and Opportunity",
		Context: func(s DeckSubmission) string {
			return fmt.Sprintf("Sector: %s, Stage: %s", s.Sector, s.Stage)
		},
	},
	{
		Key:   "team",
		Title: "Team",
		Label: "Team Quality and Experience",
		Context: func(s DeckSubmission) string {
			return fmt.Sprintf("Company: %s, Stage: %s", s.CompanyName, s.Stage)
		},
	},
	{
		Key:   "product",
		Title: "Product",
		Label: "Product Differentiation and Innovation",
		Context: func(s DeckSubmission) string {
			return fmt.Sprintf("Sector: %s", s.Sector)
		},
	},
	{
		Key:   "traction",
		Title: "Traction",
		Label: "Traction and Growth Metrics",
		Context: func(s DeckSubmission) string {
			return fmt.Sprintf("Stage: %s", s.Stage)
		},
	},
	{
		Key:   "financials",
		Title: "Financials",
		Label: "Financials and Runway",
		Context: func(s DeckSubmission) string {
			return fmt.Sprintf("Funding Ask: %s", s.FundingAsk)
		},
	},
}

func CategoryKeys() []string {
	keys := make([]string, 0, len(Categories))
	for _, c := range Categories {
		keys = append(keys, c.Key)
	}
	return keys
}
