// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Totem Contributors

// Package detect turns free-text user input into a routing decision over
// the registered capability plugins. The scorer is a transparent lexical
// matcher: trigger phrases weigh twice as much as topic keywords, and
// the confidence for a plugin is matched weight over possible weight.
package detect

import (
	"log/slog"
	"sort"
	"strings"
	"sync"

	"github.com/totem-dev/totem/internal/registry"
)

// DefaultThreshold is the minimum confidence a plugin needs to trigger
// unless the host tunes it.
const DefaultThreshold = 0.6

const (
	triggerWeight = 2
	keywordWeight = 1
)

// Result is the scoring outcome for one plugin against one input.
// Results are created fresh per call and never persisted.
type Result struct {
	PluginName     string
	Confidence     float64
	MatchedTerms   []string
	ExtractedInput string
	ShouldExecute  bool
}

// Detector scores input against the current registry contents. Its only
// state is the tunable threshold; detection itself is a pure computation
// and safe to call concurrently.
type Detector struct {
	reg *registry.Registry
	log *slog.Logger

	mu        sync.RWMutex
	threshold float64
}

// New creates a Detector over reg with the default threshold. log may be
// nil, in which case slog.Default() is used.
func New(reg *registry.Registry, log *slog.Logger) *Detector {
	if log == nil {
		log = slog.Default()
	}
	return &Detector{
		reg:       reg,
		log:       log,
		threshold: DefaultThreshold,
	}
}

// SetThreshold sets the trigger threshold, clamped to [0, 1].
func (d *Detector) SetThreshold(t float64) {
	if t < 0 {
		t = 0
	}
	if t > 1 {
		t = 1
	}

	d.mu.Lock()
	d.threshold = t
	d.mu.Unlock()
}

// Threshold returns the current trigger threshold.
func (d *Detector) Threshold() float64 {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.threshold
}

// Detect scores every registered plugin against input and returns the
// winner, or nil when no plugin clears the threshold (the caller then
// falls through to the language model). On exact confidence ties the
// plugin registered first wins; the comparison is strictly-greater, so
// enumeration order is the deterministic tie-break.
func (d *Detector) Detect(input string) *Result {
	norm := normalize(input)
	threshold := d.Threshold()

	var best *Result
	for _, p := range d.reg.GetAll() {
		res := analyze(norm, p.Manifest.Name, p.Manifest.TriggerWords, p.Manifest.Keywords, threshold)
		if !res.ShouldExecute {
			continue
		}
		if best == nil || res.Confidence > best.Confidence {
			best = res
		}
	}

	if best == nil {
		d.log.Debug("no plugin triggered", "input_len", len(input))
		return nil
	}

	d.log.Debug("plugin triggered",
		"plugin", best.PluginName,
		"confidence", best.Confidence,
		"matched", strings.Join(best.MatchedTerms, ","))
	return best
}

// PotentialMatches returns every plugin with nonzero confidence, sorted
// by descending confidence, without applying the threshold gate. Ties
// keep registration order. Intended for diagnostics: answering why a
// plugin did or did not trigger.
func (d *Detector) PotentialMatches(input string) []Result {
	norm := normalize(input)
	threshold := d.Threshold()

	var matches []Result
	for _, p := range d.reg.GetAll() {
		res := analyze(norm, p.Manifest.Name, p.Manifest.TriggerWords, p.Manifest.Keywords, threshold)
		if res.Confidence > 0 {
			matches = append(matches, *res)
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Confidence > matches[j].Confidence
	})
	return matches
}

// analyze scores one plugin's vocabulary against normalized input.
// Trigger phrases add 2 to the possible weight and, when the input
// contains them as a substring, 2 to the matched weight; keywords do the
// same with weight 1. A plugin with no vocabulary has zero possible
// weight and can never match. ShouldExecute additionally requires at
// least one matched term so a zero threshold cannot promote an
// empty-score plugin.
func analyze(norm, name string, triggers, keywords []string, threshold float64) *Result {
	var matched, possible int
	var matchedTerms []string

	for _, t := range triggers {
		possible += triggerWeight
		if strings.Contains(norm, normalize(t)) {
			matched += triggerWeight
			matchedTerms = append(matchedTerms, t)
		}
	}

	for _, k := range keywords {
		possible += keywordWeight
		if strings.Contains(norm, normalize(k)) {
			matched += keywordWeight
			matchedTerms = append(matchedTerms, k)
		}
	}

	var confidence float64
	if possible > 0 {
		confidence = float64(matched) / float64(possible)
	}

	return &Result{
		PluginName:     name,
		Confidence:     confidence,
		MatchedTerms:   matchedTerms,
		ExtractedInput: extract(norm, matchedTerms),
		ShouldExecute:  confidence >= threshold && len(matchedTerms) > 0,
	}
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
