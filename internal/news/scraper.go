package news

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/gocolly/colly/v2"

	"llm-hedge-fund/internal/logger"
)

const maxHeadlinesPerSource = 10

// Source is one financial news site to scrape headlines from.
type Source struct {
	Name             string
	BaseURL          string
	SearchPath       string // contains {symbol}
	HeadlineSelector string
	RateLimit        time.Duration
}

// Scraper collects recent headlines for a ticker across configured
// sources. It feeds the sentiment analyst; scraping failures per source
// are logged and skipped.
type Scraper struct {
	sources []Source
	timeout time.Duration
}

// NewScraper creates a scraper with the default source list.
func NewScraper(timeout time.Duration) *Scraper {
	return &Scraper{
		sources: defaultSources(),
		timeout: timeout,
	}
}

func defaultSources() []Source {
	return []Source{
		{
			Name:             "YahooFinance",
			BaseURL:          "https://finance.yahoo.com",
			SearchPath:       "/quote/{symbol}/news",
			HeadlineSelector: "h3",
			RateLimit:        2 * time.Second,
		},
		{
			Name:             "MarketWatch",
			BaseURL:          "https://www.marketwatch.com",
			SearchPath:       "/investing/stock/{symbol}",
			HeadlineSelector: "h3.article__headline, a.link",
			RateLimit:        2 * time.Second,
		},
	}
}

// FetchHeadlines scrapes every source for the ticker and returns the
// collected headline texts.
func (s *Scraper) FetchHeadlines(ctx context.Context, ticker string) ([]string, error) {
	var headlines []string
	for _, source := range s.sources {
		found, err := s.scrapeSource(ctx, source, ticker)
		if err != nil {
			logger.Warn(ctx, "Headline source failed",
				"source", source.Name,
				"ticker", ticker,
				"error", err,
			)
			continue
		}
		headlines = append(headlines, found...)
	}
	if len(headlines) == 0 {
		return nil, fmt.Errorf("no headlines found for %s", ticker)
	}
	return headlines, nil
}

func (s *Scraper) scrapeSource(ctx context.Context, source Source, ticker string) ([]string, error) {
	target := source.BaseURL + strings.ReplaceAll(source.SearchPath, "{symbol}", url.PathEscape(ticker))

	c := colly.NewCollector(
		colly.AllowedDomains(domainOf(source.BaseURL)),
		colly.MaxDepth(1),
		colly.Async(false),
	)
	c.SetRequestTimeout(s.timeout)
	_ = c.Limit(&colly.LimitRule{DomainGlob: "*", Delay: source.RateLimit})

	var headlines []string
	c.OnHTML(source.HeadlineSelector, func(e *colly.HTMLElement) {
		if len(headlines) >= maxHeadlinesPerSource {
			return
		}
		text := strings.TrimSpace(e.Text)
		if len(text) > 15 {
			headlines = append(headlines, text)
		}
	})

	var scrapeErr error
	c.OnError(func(r *colly.Response, err error) {
		scrapeErr = err
	})

	if err := c.Visit(target); err != nil {
		return nil, err
	}
	c.Wait()

	if scrapeErr != nil && len(headlines) == 0 {
		return nil, scrapeErr
	}
	return headlines, nil
}

func domainOf(base string) string {
	u, err := url.Parse(base)
	if err != nil {
		return ""
	}
	return u.Hostname()
}
