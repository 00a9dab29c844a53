package webevidence

import (
	"context"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/rotisserie/eris"
)

// maxPageBytes limits how much of a page is downloaded for snippet upgrades.
const maxPageBytes = 512 * 1024

// PageScraper fetches a result URL via net/http and reduces it to plaintext.
// PDFs are skipped: their text is not extractable with an HTML strip.
type PageScraper struct {
	client   *http.Client
	maxChars int
}

// NewPageScraper creates a PageScraper.
func NewPageScraper(timeout time.Duration, maxChars int) *PageScraper {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if maxChars <= 0 {
		maxChars = 4000
	}
	return &PageScraper{
		client:   &http.Client{Timeout: timeout},
		maxChars: maxChars,
	}
}

// Fetch downloads a URL and returns stripped, truncated page text.
func (p *PageScraper) Fetch(ctx context.Context, targetURL string) (string, error) {
	if strings.HasSuffix(strings.ToLower(targetURL), ".pdf") {
		return "", eris.New("scrape: pdf skipped")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, targetURL, nil)
	if err != nil {
		return "", eris.Wrap(err, "scrape: create request")
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (compatible; EntityResolver/1.0)")

	resp, err := p.client.Do(req)
	if err != nil {
		return "", eris.Wrap(err, "scrape: fetch")
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode >= 400 {
		return "", eris.Errorf("scrape: status %d", resp.StatusCode)
	}
	if strings.Contains(resp.Header.Get("Content-Type"), "application/pdf") {
		return "", eris.New("scrape: pdf skipped")
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxPageBytes))
	if err != nil {
		return "", eris.Wrap(err, "scrape: read body")
	}

	text := StripHTML(string(body))
	if len(text) > p.maxChars {
		text = text[:p.maxChars]
	}
	return text, nil
}

// StripHTML removes script/style/nav/footer blocks, strips tags, decodes
// common entities, and collapses whitespace.
func StripHTML(html string) string {
	for _, tag := range []string{"script", "style", "nav", "footer"} {
		re := regexp.MustCompile(`(?is)<` + tag + `[^>]*>.*?</` + tag + `>`)
		html = re.ReplaceAllString(html, "")
	}

	tagRe := regexp.MustCompile(`<[^>]+>`)
	html = tagRe.ReplaceAllString(html, " ")

	r := strings.NewReplacer(
		"&amp;", "&",
		"&lt;", "<",
		"&gt;", ">",
		"&quot;", `"`,
		"&#39;", "'",
		"&nbsp;", " ",
	)
	html = r.Replace(html)

	spaceRe := regexp.MustCompile(`[ \t]+`)
	html = spaceRe.ReplaceAllString(html, " ")

	nlRe := regexp.MustCompile(`\n{3,}`)
	html = nlRe.ReplaceAllString(html, "\n\n")

	return strings.TrimSpace(html)
}
