package rates

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strings"

	domainpricing "rentprice/internal/domain/pricing"
)

const DefaultURL = "https://openexchangerates.org/api/latest.json"

// Source fetches a full rate table.
type Source interface {
	Fetch(ctx context.Context) (Table, error)
}

// HTTPSource calls GET {URL}?app_id={AppID}.
type HTTPSource struct {
	URL    string
	AppID  string
	Client *http.Client
	Logger *slog.Logger
}

func (s *HTTPSource) Fetch(ctx context.Context) (Table, error) {
	if s == nil || s.Client == nil {
		return Table{}, fmt.Errorf("%w: http client not configured", domainpricing.ErrRateUnavailable)
	}
	endpoint := s.URL
	if endpoint == "" {
		endpoint = DefaultURL
	}
	u, err := url.Parse(endpoint)
	if err != nil {
		return Table{}, fmt.Errorf("%w: bad rates url: %w", domainpricing.ErrRateUnavailable, err)
	}
	if s.AppID != "" {
		q := u.Query()
		q.Set("app_id", s.AppID)
		u.RawQuery = q.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return Table{}, err
	}
	req.Header.Set("Accept", "application/json")
	resp, err := s.Client.Do(req)
	if err != nil {
		var netErr net.Error
		if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
			err = fmt.Errorf("%w: rates service timeout (%s)", domainpricing.ErrRateUnavailable, u.Host)
		} else {
			err = fmt.Errorf("%w: rates service unreachable (%s)", domainpricing.ErrRateUnavailable, u.Host)
		}
		s.logError("rates request failed", err)
		return Table{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		err := fmt.Errorf("%w: rates service returned %d: %s", domainpricing.ErrRateUnavailable, resp.StatusCode, strings.TrimSpace(string(snippet)))
		s.logError("rates returned error", err)
		return Table{}, err
	}

	var table Table
	if err := json.NewDecoder(resp.Body).Decode(&table); err != nil {
		err = fmt.Errorf("%w: decode rates: %w", domainpricing.ErrRateUnavailable, err)
		s.logError("rates decode failed", err)
		return Table{}, err
	}
	if len(table.Rates) == 0 {
		return Table{}, fmt.Errorf("%w: empty rate table", domainpricing.ErrRateUnavailable)
	}
	return table, nil
}

func (s *HTTPSource) logError(msg string, err error) {
	if s.Logger != nil {
		s.Logger.Error(msg, "error", err)
	}
}
