package queries

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/anatolykoptev/go_obscura/internal/engine"
)

// Strategy produces up to n search queries.
type Strategy interface {
	Queries(ctx context.Context, n int) ([]string, error)
}

// Strategy names accepted by New.
const (
	StrategyChaos       = "chaos"
	StrategyDeep        = "deep"
	StrategyRabbitHole  = "rabbithole"
	StrategyTimeCapsule = "timecapsule"
	StrategyLLM         = "llm"
)

// Options carries what the individual strategies need; unused fields are ignored.
type Options struct {
	Rand       *rand.Rand
	Now        time.Time
	Categories []string      // deep
	Seed       *engine.Video // rabbithole
	Date       time.Time     // timecapsule; zero picks a random date
	Theme      string        // llm
	Complete   Completer     // llm
}

// New returns the named strategy.
func New(name string, o Options) (Strategy, error) {
	if o.Rand == nil {
		o.Rand = rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0))
	}
	if o.Now.IsZero() {
		o.Now = time.Now().UTC()
	}
	switch strings.ToLower(name) {
	case StrategyChaos:
		return &Chaos{Rand: o.Rand}, nil
	case StrategyDeep:
		return &Deep{Rand: o.Rand, Categories: o.Categories}, nil
	case StrategyRabbitHole:
		if o.Seed == nil {
			return nil, errors.New("rabbithole: seed video required")
		}
		return &RabbitHole{Seed: *o.Seed, Rand: o.Rand}, nil
	case StrategyTimeCapsule:
		d := o.Date
		if d.IsZero() {
			d = RandomDate(o.Rand, o.Now)
		}
		return TimeCapsule{Date: d}, nil
	case StrategyLLM:
		if o.Complete == nil {
			return nil, errors.New("llm: no client configured")
		}
		return &LLMStrategy{Complete: o.Complete, Theme: o.Theme}, nil
	}
	return nil, fmt.Errorf("unknown strategy %q", name)
}

var (
	chaosPrefixes = []string{"IMG_", "DSC_", "VID_", "MOV_", "MVI_", "GOPR", "DJI_"}
	chaosPhones   = []string{"iphone", "samsung", "nokia", "motorola", "lg"}
)

// Chaos mixes random filename numbers, dates, booster pairs, hex noise and old phone models.
type Chaos struct {
	Rand *rand.Rand
}

func (c *Chaos) Queries(_ context.Context, n int) ([]string, error) {
	r := c.Rand
	gens := []func() string{
		func() string { return fmt.Sprintf("%s%d", pick(r, chaosPrefixes), 1000+r.IntN(9000)) },
		func() string { return fmt.Sprintf("%d-%02d-%02d", 2005+r.IntN(19), 1+r.IntN(12), 1+r.IntN(28)) },
		func() string { return pick(r, engine.WeirdnessBoosters) + " " + pick(r, engine.WeirdnessBoosters) },
		func() string { return fmt.Sprintf("%08x", r.Uint32()) },
		func() string { return fmt.Sprintf("%s video %d", pick(r, chaosPhones), 2006+r.IntN(10)) },
	}
	out := make([]string, 0, max(n, 0))
	for range n {
		out = append(out, gens[r.IntN(len(gens))]())
	}
	return out, nil
}

// Deep samples hand-picked queries from the named categories, or from all of them.
type Deep struct {
	Rand       *rand.Rand
	Categories []string
}

func (d *Deep) Queries(_ context.Context, n int) ([]string, error) {
	var pool []string
	for _, c := range DeepCategories {
		if len(d.Categories) == 0 || containsFold(d.Categories, c.Name) {
			pool = append(pool, c.Queries...)
		}
	}
	if len(pool) == 0 {
		return nil, fmt.Errorf("deep: no category matches %v", d.Categories)
	}
	d.Rand.Shuffle(len(pool), func(i, j int) { pool[i], pool[j] = pool[j], pool[i] })
	return pool[:min(max(n, 0), len(pool))], nil
}

var (
	properNounRE = regexp.MustCompile(`\b[A-Z][a-z]{3,}\b`)
	yearRE       = regexp.MustCompile(`20[0-2]\d`)
	longWordRE   = regexp.MustCompile(`\b\w{4,}\b`)
)

var stopWords = map[string]bool{
	"this": true, "that": true, "with": true, "from": true,
}

// RabbitHole derives follow-up queries from one video's tags, title, channel and description.
type RabbitHole struct {
	Seed engine.Video
	Rand *rand.Rand
}

func (rh *RabbitHole) Queries(_ context.Context, n int) ([]string, error) {
	v := rh.Seed
	tags := v.Tags
	var qs []string
	for i := 0; i < min(len(tags)-1, 5); i++ {
		qs = append(qs, tags[i]+" "+tags[i+1])
	}
	if len(tags) > 0 {
		qs = append(qs, "IMG_ "+tags[0])
	}
	if len(tags) > 2 {
		qs = append(qs, "VID_ "+tags[2])
	}
	if len(tags) > 4 {
		qs = append(qs, "DSC_ "+tags[4])
	}

	text := v.Title + " " + v.Description
	if names := properNounRE.FindAllString(text, 2); len(names) > 0 {
		if len(names) == 2 {
			qs = append(qs, names[0]+" "+names[1])
		}
		qs = append(qs, "IMG_ "+names[0])
	}
	if v.Channel != "" && v.Channel != "Unknown" {
		qs = append(qs, `"`+v.Channel+`"`)
	}
	if len(tags) > 0 {
		if y := yearRE.FindString(text); y != "" {
			qs = append(qs, y+" "+tags[0])
		}
		qs = append(qs, pick(rh.Rand, engine.WeirdnessBoosters[:15])+" "+tags[0])
	}
	if top := topWords(v.Description, 2); len(top) == 2 {
		qs = append(qs, top[0]+" "+top[1])
	}

	qs = Dedup(qs)
	return qs[:min(max(n, 0), len(qs))], nil
}

// topWords returns the k most frequent words of four or more letters, ties by first use.
func topWords(s string, k int) []string {
	counts := make(map[string]int)
	var order []string
	for _, w := range longWordRE.FindAllString(strings.ToLower(s), -1) {
		if stopWords[w] {
			continue
		}
		if counts[w] == 0 {
			order = append(order, w)
		}
		counts[w]++
	}
	sort.SliceStable(order, func(i, j int) bool { return counts[order[i]] > counts[order[j]] })
	return order[:min(k, len(order))]
}

// TimeCapsule searches for the date strings people put in titles on one day.
type TimeCapsule struct {
	Date time.Time
}

func (tc TimeCapsule) Queries(_ context.Context, n int) ([]string, error) {
	d := tc.Date
	compact := d.Format("20060102")
	qs := []string{
		compact,
		d.Format("2006-01-02"),
		d.Format("01/02/2006"),
		d.Format("January 02 2006"),
		d.Format("Jan 02 2006"),
		d.Format("02 January 2006"),
		"IMG_" + compact,
		"VID_" + compact,
		"MOV_" + compact,
		"DSC_" + compact,
	}
	return qs[:min(max(n, 0), len(qs))], nil
}

// PlatformLaunch is the earliest upload date worth searching.
var PlatformLaunch = time.Date(2005, time.April, 23, 0, 0, 0, 0, time.UTC)

// RandomDate picks a day between PlatformLaunch and now.
func RandomDate(r *rand.Rand, now time.Time) time.Time {
	days := int(now.Sub(PlatformLaunch).Hours() / 24)
	if days <= 0 {
		return PlatformLaunch
	}
	return PlatformLaunch.AddDate(0, 0, r.IntN(days+1))
}

// TimeTravel picks a random filename query and a ten-day window centred
// between one and roughly nineteen years before now.
func TimeTravel(r *rand.Rand, now time.Time) (query string, after, before time.Time) {
	center := now.AddDate(0, 0, -(365 + r.IntN(7000-365+1)))
	p := FilenamePatterns[r.IntN(len(FilenamePatterns))]
	return p.Query, center.AddDate(0, 0, -5), center.AddDate(0, 0, 5)
}

func pick(r *rand.Rand, xs []string) string {
	return xs[r.IntN(len(xs))]
}

func containsFold(xs []string, s string) bool {
	for _, x := range xs {
		if strings.EqualFold(x, s) {
			return true
		}
	}
	return false
}
