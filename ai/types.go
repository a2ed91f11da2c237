package ai

// ProposalExtraction is the fixed schema structured extraction returns
// for a proposal folder. Fields the model cannot determine are left at
// their zero values.
type ProposalExtraction struct {
	Title            string   `json:"title"`
	Client           string   `json:"client"`
	Sector           string   `json:"sector"`
	Country          string   `json:"country"`
	TenderNumber     string   `json:"tender_number"`
	TechnicalSummary string   `json:"technical_summary"`
	PricingSummary   string   `json:"pricing_summary"`
	TotalPrice       float64  `json:"total_price"`
	MarginInfo       string   `json:"margin_info"`
	Technologies     []string `json:"technologies"`
	Keywords         []string `json:"keywords"`
	FullSummary      string   `json:"full_summary"`
}

// Sectors lists the sector values the extraction prompt steers the
// model towards. The index itself accepts any string.
var Sectors = []string{
	"telecom",
	"it",
	"infrastructure",
	"security",
	"energy",
	"general",
}
