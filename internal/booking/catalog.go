package booking

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"
)

const pathPackages = "arrangementen"

// LoadPackages fetches every package known to the API.
func LoadPackages(ctx context.Context, transport Transport) ([]Package, error) {
	raw, err := transport.Get(ctx, pathPackages)
	if err != nil {
		return nil, fmt.Errorf("get packages: %w", err)
	}
	var packages []Package
	if err := json.Unmarshal(raw, &packages); err != nil {
		return nil, fmt.Errorf("decode packages: %w", err)
	}
	return packages, nil
}

// BookablePackages keeps the online-bookable packages, sorted by display
// name. The API sorts by internal name, which users never see.
func BookablePackages(packages []Package) []Package {
	out := make([]Package, 0, len(packages))
	for _, p := range packages {
		if p.OnlineBookable {
			out = append(out, p)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Name() < out[j].Name()
	})
	return out
}

// LinePreview is the actual time window of one package line for a chosen
// start of the package.
type LinePreview struct {
	Line  PackageLine
	Begin time.Time
	End   time.Time
}

// TimePreview shifts the per-line lines' windows so the earliest line of the
// package starts at start. Lines without a window are left out.
func TimePreview(pkg Package, start time.Time) []LinePreview {
	var packageStart time.Time
	for _, l := range pkg.Lines {
		if l.Begin == nil || l.Begin.IsZero() {
			continue
		}
		if packageStart.IsZero() || l.Begin.Before(packageStart) {
			packageStart = l.Begin.Time
		}
	}
	if packageStart.IsZero() {
		return nil
	}

	var out []LinePreview
	for _, l := range pkg.PerLineLines() {
		if l.Begin == nil || l.End == nil || l.Begin.IsZero() || l.End.IsZero() {
			continue
		}
		out = append(out, LinePreview{
			Line:  l,
			Begin: start.Add(l.Begin.Sub(packageStart)),
			End:   start.Add(l.End.Sub(packageStart)),
		})
	}
	return out
}

// TimePreview uses the chosen date and time; nil until both are set.
func (s *Session) TimePreview() []LinePreview {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pkg == nil || s.sel.Date == "" || s.sel.Time == "" {
		return nil
	}
	start, err := time.ParseInLocation(DateLayout+" "+TimeLayout, s.sel.Date+" "+s.sel.Time, s.loc)
	if err != nil {
		return nil
	}
	return TimePreview(*s.pkg, start)
}
