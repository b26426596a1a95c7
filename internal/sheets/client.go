// Package sheets loads a league roster and its match results from a shared Google
// Sheets document through the gviz CSV export.
package sheets

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"tennis-league/internal/model"

	log "github.com/sirupsen/logrus"
)

const (
	DefaultBaseURL      = "https://docs.google.com"
	DefaultPlayersSheet = "Players"
	DefaultMatchesSheet = "Matches"

	nameColumn    = "Name"
	playerAColumn = "Player_A"
	playerBColumn = "Player_B"
	scoreColumn   = "Score"
)

var ErrInvalidShareURL = errors.New("not a google sheets share link")

type Options struct {
	BaseURL      string
	PlayersSheet string
	MatchesSheet string
	HTTPClient   *http.Client
}

// Client reads one spreadsheet. It satisfies loader.Loader.
type Client struct {
	sheetID      string
	baseURL      string
	playersSheet string
	matchesSheet string
	httpClient   *http.Client
	now          func() time.Time
}

func NewClient(shareURL string, opts Options) (*Client, error) {
	id, err := SheetID(shareURL)
	if err != nil {
		return nil, err
	}
	c := &Client{
		sheetID:      id,
		baseURL:      strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/"),
		playersSheet: strings.TrimSpace(opts.PlayersSheet),
		matchesSheet: strings.TrimSpace(opts.MatchesSheet),
		httpClient:   opts.HTTPClient,
		now:          time.Now,
	}
	if c.baseURL == "" {
		c.baseURL = DefaultBaseURL
	}
	if c.playersSheet == "" {
		c.playersSheet = DefaultPlayersSheet
	}
	if c.matchesSheet == "" {
		c.matchesSheet = DefaultMatchesSheet
	}
	if c.httpClient == nil {
		c.httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	return c, nil
}

// SheetID extracts the document id from a share link such as
// https://docs.google.com/spreadsheets/d/<id>/edit?usp=sharing.
func SheetID(shareURL string) (string, error) {
	_, rest, ok := strings.Cut(strings.TrimSpace(shareURL), "/d/")
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrInvalidShareURL, shareURL)
	}
	id, _, _ := strings.Cut(rest, "/")
	id, _, _ = strings.Cut(id, "?")
	if id == "" {
		return "", fmt.Errorf("%w: %q", ErrInvalidShareURL, shareURL)
	}
	return id, nil
}

// ExportURL is the CSV export address of one named sheet.
func (c *Client) ExportURL(sheet string) string {
	q := url.Values{}
	q.Set("tqx", "out:csv")
	q.Set("sheet", sheet)
	return fmt.Sprintf("%s/spreadsheets/d/%s/gviz/tq?%s", c.baseURL, url.PathEscape(c.sheetID), q.Encode())
}

func (c *Client) Load(ctx context.Context) (model.Snapshot, error) {
	roster, err := c.loadRoster(ctx)
	if err != nil {
		return model.Snapshot{}, err
	}
	matches, err := c.loadMatches(ctx)
	if err != nil {
		return model.Snapshot{}, err
	}
	log.WithFields(log.Fields{"sheet_id": c.sheetID, "players": len(roster), "matches": len(matches)}).
		Info("loaded league sheet")
	return model.Snapshot{Roster: roster, Matches: matches, LoadedAt: c.now()}, nil
}

func (c *Client) loadRoster(ctx context.Context) ([]string, error) {
	rows, err := c.fetchSheet(ctx, c.playersSheet, nameColumn)
	if err != nil {
		return nil, err
	}
	roster := make([]string, 0, len(rows))
	for _, row := range rows {
		if name := row[nameColumn]; name != "" {
			roster = append(roster, name)
		}
	}
	return roster, nil
}

func (c *Client) loadMatches(ctx context.Context) ([]model.MatchRecord, error) {
	rows, err := c.fetchSheet(ctx, c.matchesSheet, playerAColumn, playerBColumn, scoreColumn)
	if err != nil {
		return nil, err
	}
	matches := make([]model.MatchRecord, 0, len(rows))
	for _, row := range rows {
		if row[playerAColumn] == "" || row[playerBColumn] == "" {
			continue
		}
		matches = append(matches, model.MatchRecord{
			PlayerA: row[playerAColumn],
			PlayerB: row[playerBColumn],
			Score:   row[scoreColumn],
		})
	}
	return matches, nil
}

// fetchSheet downloads a sheet and returns its rows keyed by the requested
// header names, with every cell trimmed.
func (c *Client) fetchSheet(ctx context.Context, sheet string, columns ...string) ([]map[string]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.ExportURL(sheet), nil)
	if err != nil {
		return nil, fmt.Errorf("build %s request: %w", sheet, err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s sheet: %w", sheet, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("fetch %s sheet: unexpected status %s", sheet, resp.Status)
	}
	rows, err := readCSV(resp.Body, columns)
	if err != nil {
		return nil, fmt.Errorf("read %s sheet: %w", sheet, err)
	}
	return rows, nil
}

func readCSV(r io.Reader, columns []string) ([]map[string]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("sheet is empty")
		}
		return nil, err
	}
	positions := make(map[string]int, len(columns))
	for i, name := range header {
		name = strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))
		if _, seen := positions[name]; !seen {
			positions[name] = i
		}
	}
	for _, column := range columns {
		if _, ok := positions[column]; !ok {
			return nil, fmt.Errorf("missing column %q", column)
		}
	}

	rows := []map[string]string{}
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		row := make(map[string]string, len(columns))
		for _, column := range columns {
			if pos := positions[column]; pos < len(record) {
				row[column] = strings.TrimSpace(record[pos])
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}
