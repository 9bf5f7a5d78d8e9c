package spell

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode"

	"github.com/sajari/fuzzy"

	"github.com/zero-one-labs/zeroptics/internal/common"
)

// LoaderConfig locates the two hunspell-format resources for a locale:
// the affix rules (<locale>.aff) and the word list (<locale>.dic).
// Exactly one of ResourceDir or BaseURL must be set.
type LoaderConfig struct {
	Locale      string // e.g. "en_US"
	ResourceDir string
	BaseURL     string
	Timeout     time.Duration
	HTTPClient  *http.Client
}

// wordDict is the loaded dictionary: a membership set for validity, the
// affix file's REP table for high-priority corrections, and a fuzzy
// edit-distance model for the rest.
type wordDict struct {
	words map[string]struct{}
	reps  [][2]string
	model *fuzzy.Model
}

func (d *wordDict) IsValid(word string) bool {
	if _, ok := d.words[word]; ok {
		return true
	}
	_, ok := d.words[strings.ToLower(word)]
	return ok
}

// Suggest returns ranked candidates: REP-table rewrites that land on a
// valid word first (hunspell treats those as best), then the fuzzy model's
// candidates. The input itself is never suggested.
func (d *wordDict) Suggest(word string) []string {
	lower := strings.ToLower(word)
	var out []string
	seen := map[string]struct{}{lower: {}}
	add := func(s string) {
		if s == "" {
			return
		}
		if _, dup := seen[s]; dup {
			return
		}
		seen[s] = struct{}{}
		out = append(out, matchCase(word, s))
	}

	for _, rep := range d.reps {
		if !strings.Contains(lower, rep[0]) {
			continue
		}
		cand := strings.Replace(lower, rep[0], rep[1], 1)
		if _, ok := d.words[cand]; ok {
			add(cand)
		}
	}

	if best := d.model.SpellCheck(lower); best != lower {
		add(best)
	}
	for _, s := range d.model.Suggestions(lower, false) {
		add(s)
	}
	return out
}

// matchCase carries the source word's capitalization onto a suggestion.
func matchCase(src, sugg string) string {
	if sugg == "" || src == "" {
		return sugg
	}
	if src == strings.ToUpper(src) && len(src) > 1 {
		return strings.ToUpper(sugg)
	}
	if unicode.IsUpper(rune(src[0])) {
		return strings.ToUpper(sugg[:1]) + sugg[1:]
	}
	return sugg
}

// Load fetches and parses both resources synchronously.
func Load(ctx context.Context, cfg LoaderConfig) (Dictionary, error) {
	if cfg.Locale == "" {
		return nil, fmt.Errorf("%w: locale is required", common.ErrDictionaryLoad)
	}
	aff, err := fetchResource(ctx, cfg, cfg.Locale+".aff")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrDictionaryLoad, err)
	}
	dic, err := fetchResource(ctx, cfg, cfg.Locale+".dic")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrDictionaryLoad, err)
	}
	return build(aff, dic)
}

// LoadAsync loads in the background and publishes into the holder on
// success. Failure leaves the holder empty (corrector stays a passthrough)
// and is logged once, never surfaced.
func LoadAsync(ctx context.Context, cfg LoaderConfig, holder *Holder, logger *slog.Logger) <-chan struct{} {
	if logger == nil {
		logger = slog.Default()
	}
	done := make(chan struct{})
	go func() {
		defer close(done)
		start := time.Now()
		d, err := Load(ctx, cfg)
		if err != nil {
			logger.Warn("spell.load.failed", "locale", cfg.Locale, "error", err)
			return
		}
		holder.Set(d)
		logger.Info("spell.load.ok", "locale", cfg.Locale, "elapsed_ms", time.Since(start).Milliseconds())
	}()
	return done
}

func fetchResource(ctx context.Context, cfg LoaderConfig, name string) ([]byte, error) {
	if cfg.ResourceDir != "" {
		return os.ReadFile(filepath.Join(cfg.ResourceDir, name))
	}
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("no resource dir or base URL configured")
	}

	u, err := url.JoinPath(cfg.BaseURL, name)
	if err != nil {
		return nil, err
	}
	client := cfg.HTTPClient
	if client == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 15 * time.Second
		}
		client = &http.Client{Timeout: timeout}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch %s: %s", name, resp.Status)
	}
	return io.ReadAll(resp.Body)
}

func build(aff, dic []byte) (Dictionary, error) {
	words, err := parseDic(dic)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrDictionaryLoad, err)
	}

	model := fuzzy.NewModel()
	model.SetThreshold(1)
	model.SetDepth(2)
	train := make([]string, 0, len(words))
	for w := range words {
		train = append(train, w)
	}
	model.Train(train)

	return &wordDict{
		words: words,
		reps:  parseReps(aff),
		model: model,
	}, nil
}

// parseDic reads a hunspell word list: an optional leading count line, then
// one entry per line with affix flags after '/' and morphological fields
// after whitespace, both stripped.
func parseDic(dic []byte) (map[string]struct{}, error) {
	words := make(map[string]struct{})
	sc := bufio.NewScanner(bytes.NewReader(dic))
	first := true
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if first {
			first = false
			if isDigits(line) {
				continue
			}
		}
		if i := strings.IndexAny(line, "/\t "); i >= 0 {
			line = line[:i]
		}
		if line != "" {
			words[strings.ToLower(line)] = struct{}{}
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if len(words) == 0 {
		return nil, fmt.Errorf("word list is empty")
	}
	return words, nil
}

// parseReps extracts the affix file's REP replacement table,
// e.g. "REP shun tion". Hunspell spells a literal space as '_'.
func parseReps(aff []byte) [][2]string {
	var reps [][2]string
	sc := bufio.NewScanner(bytes.NewReader(aff))
	for sc.Scan() {
		fields := strings.Fields(sc.Text())
		if len(fields) != 3 || fields[0] != "REP" {
			continue
		}
		from := strings.ReplaceAll(fields[1], "_", " ")
		to := strings.ReplaceAll(fields[2], "_", " ")
		reps = append(reps, [2]string{strings.ToLower(from), strings.ToLower(to)})
	}
	return reps
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return len(s) > 0
}
