package export

import (
	"archive/zip"
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/tally/internal/document"
	"github.com/MrJamesThe3rd/tally/internal/movement"
	"github.com/MrJamesThe3rd/tally/internal/paging"
)

const SummaryName = "summary.txt"

var ErrInvalidRange = errors.New("invalid export range")

type MovementLister interface {
	List(ctx context.Context, accountID uuid.UUID, filter movement.ListFilter, page paging.Params) ([]*movement.Movement, paging.Meta, error)
}

type DocumentLister interface {
	List(ctx context.Context, accountID, movementID uuid.UUID) ([]*document.Document, error)
}

// Item represents a single exported movement with the archive entries of
// its documents.
type Item struct {
	Movement *movement.Movement
	Files    []string
}

// Service exports movements and their documents as a zip archive.
type Service struct {
	movements MovementLister
	documents DocumentLister
	client    *http.Client
	baseURL   *url.URL
	apiToken  string
}

// NewService creates a new export Service. baseURL resolves relative
// document URLs and may be empty.
func NewService(movements MovementLister, documents DocumentLister, baseURL, apiToken string) (*Service, error) {
	s := &Service{
		movements: movements,
		documents: documents,
		client:    &http.Client{Timeout: 30 * time.Second},
		apiToken:  apiToken,
	}

	if baseURL != "" {
		u, err := url.Parse(baseURL)
		if err != nil {
			return nil, fmt.Errorf("parsing document base url: %w", err)
		}

		s.baseURL = u
	}

	return s, nil
}

func (s *Service) collect(ctx context.Context, accountID uuid.UUID, from, to time.Time) ([]*movement.Movement, error) {
	filter := movement.ListFilter{From: &from, To: &to}
	page := paging.Params{Page: 1, Limit: paging.MaxLimit}

	var all []*movement.Movement

	for {
		items, meta, err := s.movements.List(ctx, accountID, filter, page)
		if err != nil {
			return nil, fmt.Errorf("listing movements: %w", err)
		}

		all = append(all, items...)

		if !meta.HasNextPage {
			return all, nil
		}

		page.Page++
	}
}

// Export writes every movement of the account dated within [from, to] to w
// as a zip archive: one entry per downloaded document plus a summary.txt.
// It returns the exported items in date order.
func (s *Service) Export(ctx context.Context, accountID uuid.UUID, from, to time.Time, w io.Writer) ([]Item, error) {
	if to.Before(from) {
		return nil, fmt.Errorf("%w: end date %s is before start date %s", ErrInvalidRange, to.Format(time.DateOnly), from.Format(time.DateOnly))
	}

	movements, err := s.collect(ctx, accountID, from, to)
	if err != nil {
		return nil, err
	}

	zw := zip.NewWriter(w)
	names := map[string]int{}

	// Pre-allocate to avoid reallocations.
	items := make([]Item, 0, len(movements))

	for i := len(movements) - 1; i >= 0; i-- {
		m := movements[i]
		item := Item{Movement: m}

		docs, err := s.documents.List(ctx, accountID, m.ID)
		if err != nil {
			return nil, fmt.Errorf("listing documents for movement %s: %w", m.ID, err)
		}

		for _, d := range docs {
			name, err := s.download(ctx, zw, m, d, names)
			if err != nil {
				return nil, fmt.Errorf("downloading document %s for movement %s: %w", d.ID, m.ID, err)
			}

			item.Files = append(item.Files, name)
		}

		items = append(items, item)
	}

	f, err := zw.Create(SummaryName)
	if err != nil {
		return nil, fmt.Errorf("creating summary entry: %w", err)
	}

	if _, err := io.WriteString(f, Summary(items)); err != nil {
		return nil, fmt.Errorf("writing summary: %w", err)
	}

	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("closing archive: %w", err)
	}

	return items, nil
}

func (s *Service) resolve(raw string) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("parsing url: %w", err)
	}

	if !u.IsAbs() {
		if s.baseURL == nil {
			return "", fmt.Errorf("relative url %q without a document base url", raw)
		}

		u = s.baseURL.ResolveReference(u)
	}

	return u.String(), nil
}

func (s *Service) download(ctx context.Context, zw *zip.Writer, m *movement.Movement, d *document.Document, names map[string]int) (string, error) {
	target, err := s.resolve(d.URL)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}

	if s.apiToken != "" {
		req.Header.Set("Authorization", "Token "+s.apiToken)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status code %d for url %s", resp.StatusCode, target)
	}

	name := unique(determineFilename(resp, m, d), names)

	f, err := zw.CreateHeader(&zip.FileHeader{Name: name, Method: zip.Deflate, Modified: m.Date})
	if err != nil {
		return "", fmt.Errorf("creating archive entry: %w", err)
	}

	if _, err := io.Copy(f, resp.Body); err != nil {
		return "", fmt.Errorf("writing archive entry: %w", err)
	}

	return name, nil
}

// unique suffixes repeated entry names with a counter.
func unique(name string, names map[string]int) string {
	n := names[name]
	names[name] = n + 1

	if n == 0 {
		return name
	}

	ext := path.Ext(name)

	return fmt.Sprintf("%s_%d%s", strings.TrimSuffix(name, ext), n+1, ext)
}

func sanitize(s string) string {
	return strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '-' || r == '_' || r == '.' {
			return r
		}

		return '_'
	}, s)
}

func determineFilename(resp *http.Response, m *movement.Movement, d *document.Document) string {
	prefix := m.Date.Format("20060102") + "_"

	// 1. Stored file name, then Content-Disposition.
	if d.FileName != "" {
		return prefix + sanitize(filepath.Base(d.FileName))
	}

	if cd := resp.Header.Get("Content-Disposition"); cd != "" {
		if _, params, err := mime.ParseMediaType(cd); err == nil {
			if filename, ok := params["filename"]; ok && filename != "" {
				return prefix + sanitize(filepath.Base(filename))
			}
		}
	}

	// 2. Fallback: generate a name from movement details.
	ext := ".pdf"

	if ct := resp.Header.Get("Content-Type"); ct != "" {
		if exts, _ := mime.ExtensionsByType(ct); len(exts) > 0 {
			ext = exts[0]
		}
	}

	desc := m.Description
	if desc == "" {
		desc = m.Provider
	}

	return prefix + sanitize(desc) + ext
}

// Summary renders one line per exported movement, suitable for an email
// body.
func Summary(items []Item) string {
	var sb strings.Builder

	for _, item := range items {
		m := item.Movement

		sign := "-"
		if m.Type == movement.TypeIncome {
			sign = "+"
		}

		desc := m.Description
		if m.Provider != "" {
			desc = m.Provider + " - " + desc
		}

		files := "No document"
		if len(item.Files) > 0 {
			files = strings.Join(item.Files, ", ")
		}

		fmt.Fprintf(&sb, "* %s | %s | %s%s | %s\n", m.Date.Format(time.DateOnly), desc, sign, m.Amount.StringFixed(2), files)
	}

	return sb.String()
}
