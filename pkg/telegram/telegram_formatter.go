package telegram

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"golang-market-etl/internal/etl/service"
	"golang-market-etl/pkg/utils"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const (
	maxMessageLen = 4090
	maxErrorRunes = 600
)

// FormatRunReport formats a pipeline run report into a Markdown string for Telegram.
func FormatRunReport(report *service.RunReport) string {
	var builder strings.Builder

	if report.Failed() {
		builder.WriteString("🔴 *Market ETL run finished with failures*\n")
	} else {
		builder.WriteString("🟢 *Market ETL run finished*\n")
	}
	builder.WriteString(fmt.Sprintf("🕒 %s (%s)\n\n", utils.PrettyDate(report.FinishedAt), report.Duration().Round(time.Millisecond)))

	for _, res := range report.Results {
		builder.WriteString(fmt.Sprintf("%s `%s`: %s\n", statusIcon(res.Status), escapeCode(res.Entity), res.Status))
		if res.Status == service.StatusSkipped {
			continue
		}
		builder.WriteString(fmt.Sprintf("  read %d, dropped %d, loaded %d\n", res.RowsRead, res.RowsDropped, res.RowsLoaded))
		if len(res.OmittedRatios) > 0 {
			builder.WriteString(fmt.Sprintf("  omitted ratios: %s\n", escapeText(strings.Join(res.OmittedRatios, ", "))))
		}
		if res.Error != "" {
			builder.WriteString(fmt.Sprintf("  ⚠️ `%s`\n", escapeCode(truncateRunes(res.Error, maxErrorRunes))))
		}
	}

	return truncateLines(builder.String(), maxMessageLen)
}

// truncateLines cuts msg to at most limit bytes at a line break, so no
// Markdown entity is left open.
func truncateLines(msg string, limit int) string {
	if len(msg) <= limit {
		return msg
	}
	const marker = "..."
	cut := strings.LastIndexByte(msg[:limit-len(marker)], '\n')
	if cut < 0 {
		return truncateRunes(stripMarkdown(msg), limit/utf8.UTFMax)
	}
	return msg[:cut+1] + marker
}

// truncateRunes shortens s to at most n runes, never splitting one.
func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	count := 0
	for i := range s {
		if count == n-1 {
			return s[:i] + "…"
		}
		count++
	}
	return s
}

func stripMarkdown(s string) string {
	return strings.NewReplacer("*", "", "_", "", "`", "", "[", "").Replace(s)
}

func statusIcon(status service.EntityStatus) string {
	switch status {
	case service.StatusLoaded:
		return "✅"
	case service.StatusSkipped:
		return "⏭"
	default:
		return "❌"
	}
}

// escapeText escapes legacy Markdown control characters outside entities.
func escapeText(s string) string {
	return tgbotapi.EscapeText(tgbotapi.ModeMarkdown, s)
}

// escapeCode keeps an error message inside a Markdown code span.
func escapeCode(s string) string {
	return strings.ReplaceAll(s, "`", "'")
}
