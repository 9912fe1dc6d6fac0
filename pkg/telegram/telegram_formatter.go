package telegram

import (
	"fmt"
	"strings"
	"time"

	"golang-stock-newsdigest/internal/ingestion/dto"
)

const maxMessageLen = 4090

// FormatBatchReportForTelegram renders a batch report as one or more Markdown messages,
// each at most maxMessageLen bytes long.
func FormatBatchReportForTelegram(report dto.BatchReport, finishedAt time.Time) []string {
	var messages []string
	var current strings.Builder
	part := 1

	startNewPart := func() {
		current.Reset()
		if part == 1 {
			current.WriteString("📰 *News Digest Refresh* 📰\n")
			current.WriteString(fmt.Sprintf("🕒 %s\n", finishedAt.UTC().Format("2006-01-02 15:04 MST")))
			current.WriteString(fmt.Sprintf("✅ Processed: %d  ❌ Failed: %d\n\n", report.Processed, report.Failed))
		} else {
			current.WriteString(fmt.Sprintf("---*News Digest Refresh Part %d*---\n\n", part))
		}
	}
	startNewPart()

	if len(report.Results) == 0 {
		current.WriteString("No watchlisted securities to refresh.\n")
	}

	for _, r := range report.Results {
		entry := formatSecurityResult(r)
		if current.Len()+len(entry) > maxMessageLen {
			messages = append(messages, current.String())
			part++
			startNewPart()
		}
		current.WriteString(entry)
	}

	return append(messages, current.String())
}

func formatSecurityResult(r dto.SecurityResult) string {
	var b strings.Builder
	if !r.IsSuccess {
		b.WriteString(fmt.Sprintf("❌ *%s*: %s\n", r.Symbol, escapeMarkdown(r.Error)))
		return b.String()
	}

	b.WriteString(fmt.Sprintf("%s *%s* %s\n", sentimentIcon(r.Sentiment), r.Symbol, r.Sentiment))
	b.WriteString(fmt.Sprintf("   🗞 %d news  📅 %d events  ⭐ %d highlights\n", r.NewsItems, r.Events, r.Highlights))
	return b.String()
}

func sentimentIcon(sentiment string) string {
	switch strings.ToLower(sentiment) {
	case "bullish":
		return "🟢"
	case "bearish":
		return "🔴"
	default:
		return "🟡"
	}
}

var markdownEscaper = strings.NewReplacer("_", "\\_", "*", "\\*", "`", "\\`", "[", "\\[")

func escapeMarkdown(s string) string {
	return markdownEscaper.Replace(s)
}
