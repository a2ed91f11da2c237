package ingestion

import (
	"fmt"
	"strings"

	"github.com/poiesic/tenderidx/ai"
)

// renderSummary produces the human-readable Markdown rendition of the
// extracted fields written next to the source files.
func renderSummary(extraction *ai.ProposalExtraction) string {
	var b strings.Builder

	client := extraction.Client
	if client == "" {
		client = "Unknown"
	}

	fmt.Fprintf(&b, "# %s\n\n", extraction.Title)
	fmt.Fprintf(&b, "**Client:** %s\n", client)
	fmt.Fprintf(&b, "**Sector:** %s\n", extraction.Sector)
	fmt.Fprintf(&b, "**Country:** %s\n", extraction.Country)
	fmt.Fprintf(&b, "**Tender Number:** %s\n\n", extraction.TenderNumber)
	fmt.Fprintf(&b, "## Technical Summary\n%s\n\n", extraction.TechnicalSummary)
	fmt.Fprintf(&b, "## Pricing Summary\n%s\n", extraction.PricingSummary)
	fmt.Fprintf(&b, "**Total Price:** %g\n", extraction.TotalPrice)
	fmt.Fprintf(&b, "**Margin Info:** %s\n\n", extraction.MarginInfo)

	b.WriteString("## Technologies\n")
	for _, t := range extraction.Technologies {
		fmt.Fprintf(&b, "- %s\n", t)
	}

	b.WriteString("\n## Keywords\n")
	b.WriteString(strings.Join(extraction.Keywords, ", "))

	fmt.Fprintf(&b, "\n\n## Full Summary\n%s\n", extraction.FullSummary)

	return b.String()
}
