package news

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/gocolly/colly/v2"

	"stocksafe/internal/interfaces"
	"stocksafe/internal/logger"
)

const scraperUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// Scraper pulls headlines from the Google News feed. It is the fallback
// path when the news API is unavailable or returns nothing.
type Scraper struct {
	maxHeadlines int
	timeout      time.Duration
}

var _ interfaces.HeadlineFetcher = (*Scraper)(nil)

func NewScraper(maxHeadlines int, timeout time.Duration) *Scraper {
	return &Scraper{maxHeadlines: maxHeadlines, timeout: timeout}
}

// Headlines scrapes recent feed titles for a company. Scrape failures are
// logged and degrade to an empty list.
func (s *Scraper) Headlines(ctx context.Context, company string) []string {
	titles := []string{}

	c := colly.NewCollector(
		colly.AllowedDomains("news.google.com"),
	)
	c.SetRequestTimeout(s.timeout)

	c.OnRequest(func(r *colly.Request) {
		r.Headers.Set("User-Agent", scraperUserAgent)
	})

	c.OnXML("//item", func(e *colly.XMLElement) {
		if len(titles) >= s.maxHeadlines {
			return
		}
		title := cleanFeedTitle(e.ChildText("title"))
		if title == "" {
			title = cleanFeedTitle(e.ChildText("description"))
		}
		if title != "" {
			titles = append(titles, title)
		}
	})

	c.OnError(func(r *colly.Response, err error) {
		logger.ErrorWithErr(ctx, "Feed scrape error", err, "url", r.Request.URL.String())
	})

	query := url.QueryEscape(company + " stock news India")
	feedURL := fmt.Sprintf("https://news.google.com/rss/search?q=%s&hl=en-IN&gl=IN&ceid=IN:en", query)

	if err := c.Visit(feedURL); err != nil {
		logger.Degraded(ctx, "scraper", company, err)
		return nil
	}
	c.Wait()

	logger.Debug(ctx, "feed scrape completed", "company", company, "headlines", len(titles))
	return titles
}

// cleanFeedTitle strips the HTML markup feed entries wrap their text in and
// collapses surrounding whitespace.
func cleanFeedTitle(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	if strings.ContainsAny(raw, "<>") {
		doc, err := goquery.NewDocumentFromReader(strings.NewReader(raw))
		if err == nil {
			raw = doc.Text()
		}
	}
	return strings.Join(strings.Fields(raw), " ")
}
