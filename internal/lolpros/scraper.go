// Package lolpros discovers a player's ranked accounts from their lolpros.gg
// profile and assembles per-account ranks and recent champion history.
package lolpros

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog/log"
)

const userAgent = "lolstats-ingestion/1.0"

// Scraper reads account names from lolpros profile pages
type Scraper struct {
	httpClient *http.Client
}

// NewScraper creates a profile scraper
func NewScraper(timeout time.Duration) *Scraper {
	return &Scraper{
		httpClient: &http.Client{Timeout: timeout},
	}
}

// AccountIDs returns the raw account ids ("name#server" or bare name) listed
// on a profile page
func (s *Scraper) AccountIDs(ctx context.Context, profileURL string) ([]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, profileURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch profile: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("profile %s returned status %d", profileURL, resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse profile: %w", err)
	}

	ids := ExtractAccountIDs(doc)
	log.Info().
		Str("player", playerSlug(profileURL)).
		Strs("ids", ids).
		Msg("Accounts found on profile")

	return ids, nil
}

// ExtractAccountIDs reads the account list of a parsed profile. Multi-account
// profiles list each account in an element with class "account"; otherwise the
// first op.gg link carries the single account name after its last '='.
func ExtractAccountIDs(doc *goquery.Document) []string {
	var ids []string
	doc.Find(".account").Each(func(_ int, s *goquery.Selection) {
		ids = append(ids, strings.TrimSpace(s.Text()))
	})
	if len(ids) > 0 {
		return ids
	}

	href, ok := doc.Find(".--opgg").First().Attr("href")
	if !ok {
		return nil
	}
	return []string{href[strings.LastIndex(href, "=")+1:]}
}

func playerSlug(profileURL string) string {
	trimmed := strings.TrimRight(profileURL, "/")
	return trimmed[strings.LastIndex(trimmed, "/")+1:]
}
