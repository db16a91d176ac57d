package telegram

import (
	"context"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"golang-market-etl/internal/etl/service"
	"golang-market-etl/pkg/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type captureNotifier struct {
	messages []string
}

func (c *captureNotifier) SendMessage(text string) error {
	c.messages = append(c.messages, text)
	return nil
}

func sampleReport() *service.RunReport {
	start := time.Date(2024, 6, 3, 18, 0, 0, 0, time.UTC)
	return &service.RunReport{
		StartedAt:  start,
		FinishedAt: start.Add(90 * time.Second),
		Results: []service.EntityResult{
			{Entity: "companies", Status: service.StatusSkipped},
			{Entity: "stock_prices", Status: service.StatusLoaded, RowsRead: 10, RowsDropped: 1, RowsLoaded: 9},
			{Entity: "financial_statements", Status: service.StatusFailed, RowsRead: 4, Error: "store `financial_statements`: timeout",
				OmittedRatios: []string{"interest_coverage_ratio"}},
		},
	}
}

func TestFormatRunReport(t *testing.T) {
	msg := FormatRunReport(sampleReport())

	assert.True(t, strings.HasPrefix(msg, "🔴"))
	assert.Contains(t, msg, "Mon, 03 Jun 2024 18:01 UTC")
	assert.Contains(t, msg, "`stock_prices`: loaded")
	assert.Contains(t, msg, "read 10, dropped 1, loaded 9")
	assert.Contains(t, msg, `omitted ratios: interest\_coverage\_ratio`)
	assert.Contains(t, msg, "`store 'financial_statements': timeout`")
	assert.NotContains(t, msg, "read 0, dropped 0, loaded 0")
}

// unbalanced returns the first line with an entity left open once escapes
// and code spans are removed.
func unbalanced(msg string) string {
	for _, line := range strings.Split(msg, "\n") {
		if strings.Count(line, "`")%2 != 0 {
			return line
		}
		plain := line
		for i := strings.Index(plain, "`"); i >= 0; i = strings.Index(plain, "`") {
			end := strings.Index(plain[i+1:], "`")
			plain = plain[:i] + plain[i+end+2:]
		}
		plain = strings.NewReplacer(`\_`, "", `\*`, "", "\\`", "", `\[`, "").Replace(plain)
		if strings.Count(plain, "_")%2 != 0 || strings.Count(plain, "*")%2 != 0 {
			return line
		}
	}
	return ""
}

func TestFormatRunReportMarkdownBalanced(t *testing.T) {
	report := sampleReport()
	report.Results[2].OmittedRatios = []string{"inventory_turnover"}

	msg := FormatRunReport(report)

	assert.Contains(t, msg, `omitted ratios: inventory\_turnover`)
	assert.Empty(t, unbalanced(msg))
}

func TestFormatRunReportTruncates(t *testing.T) {
	report := sampleReport()
	report.Results[2].Error = strings.Repeat("é`x", 5000)

	msg := FormatRunReport(report)

	assert.LessOrEqual(t, len(msg), maxMessageLen)
	assert.True(t, utf8.ValidString(msg))
	assert.Empty(t, unbalanced(msg))
	assert.Contains(t, msg, "…`")
}

func TestTruncateLines(t *testing.T) {
	msg := strings.Repeat("🟢 *ok*\n", 1000)

	got := truncateLines(msg, 100)

	assert.LessOrEqual(t, len(got), 100)
	assert.True(t, strings.HasSuffix(got, "\n..."))
	assert.True(t, utf8.ValidString(got))
	assert.Empty(t, unbalanced(got))
	assert.Equal(t, "abc", truncateLines("abc", 100))
	assert.Equal(t, "ab…", truncateRunes("abcdef", 3))
	assert.Equal(t, "éé…", truncateRunes("éééé", 3))
}

func TestRunNotifier(t *testing.T) {
	capture := &captureNotifier{}

	require.NoError(t, NewRunNotifier(capture).NotifyRun(context.Background(), sampleReport()))
	require.Len(t, capture.messages, 1)
}

func TestNewClientRequiresChat(t *testing.T) {
	_, err := NewClient(config.Telegram{BotToken: "123:abc"})
	assert.EqualError(t, err, "telegram chat_id is required")
}
