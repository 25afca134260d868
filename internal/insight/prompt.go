package insight

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/couchcryptid/quakewatch/internal/domain"
)

// formattingInstructions is the full set of output constraints the model is given.
var formattingInstructions = []string{
	"Use ONLY plain text, no markdown formatting",
	"Do NOT use **bold**, *italic*, headers, or code formatting",
	"Use simple bullet points with " + Bullet + " instead of asterisks or dashes",
	"Use emojis very sparingly (1-2 at most if relevant)",
	"Keep paragraphs short and separate ideas with a blank line",
}

// QuickQuestions are canned prompts offered alongside the conversation.
var QuickQuestions = []string{
	"Where was the strongest earthquake?",
	"Show me recent significant activity",
	"What regions are most active?",
	"Analyze today's seismic trends",
	"Any tsunami threats?",
}

// BuildPrompt renders the model prompt for question over summary. Output is
// deterministic for a given input.
func BuildPrompt(question string, summary domain.StatsSummary) string {
	var b strings.Builder

	b.WriteString("You are an earthquake analysis assistant. Analyze the following seismic data ")
	b.WriteString("and provide a helpful response to the user's question.\n\n")

	fmt.Fprintf(&b, "USER QUESTION: \"%s\"\n\n", strings.TrimSpace(question))

	b.WriteString("EARTHQUAKE DATA SUMMARY:\n")
	fmt.Fprintf(&b, "- Total earthquakes: %d\n", summary.Total)
	fmt.Fprintf(&b, "- Magnitude range: %.1f to %.1f\n", summary.MinMagnitude, summary.MaxMagnitude)
	fmt.Fprintf(&b, "- Average magnitude: %.2f\n", summary.AverageMagnitude)
	fmt.Fprintf(&b, "- Significant earthquakes (M%s+): %d\n", formatMagnitude(domain.SignificantMagnitude), summary.SignificantCount)
	fmt.Fprintf(&b, "- Recent activity (last hour): %d events\n", summary.RecentCount)
	fmt.Fprintf(&b, "- Top %d strongest earthquakes:\n", len(summary.TopEvents))
	for _, te := range summary.TopEvents {
		place := te.Place
		if place == "" {
			place = "unknown location"
		}
		fmt.Fprintf(&b, "%d. M%s at %s\n", te.Rank, formatMagnitude(te.Magnitude), place)
	}

	b.WriteString("\nIMPORTANT FORMATTING INSTRUCTIONS:\n")
	for _, instr := range formattingInstructions {
		fmt.Fprintf(&b, "- %s\n", instr)
	}

	b.WriteString("\nPlease provide a direct answer to the question, relevant insights from the data, ")
	b.WriteString("and any notable patterns. Be concise but helpful. If the question cannot be answered ")
	b.WriteString("with the available data, say what information would be needed.\n")

	return b.String()
}

func formatMagnitude(m float64) string {
	return strconv.FormatFloat(m, 'f', -1, 64)
}
