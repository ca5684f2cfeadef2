// Copyright (c) 2026 opcg-sim-backend Authors
// SPDX-License-Identifier: Apache-2.0

// Package carddb loads card master data and deck lists. The card database
// is a scraped JSON dump with inconsistent key casing and mixed Japanese and
// English column names, so every lookup goes through tolerant normalization.
package carddb

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/gx5gyqe2-art/opcg-sim-backend/cards"
	"github.com/gx5gyqe2-art/opcg-sim-backend/cards/effects"
	"github.com/gx5gyqe2-art/opcg-sim-backend/common/log"
	"github.com/gx5gyqe2-art/opcg-sim-backend/common/log/tag"
)

// Column name candidates per field, tried in order.
var (
	idKeys      = []string{"number", "Number", "品番", "型番", "id"}
	nameKeys    = []string{"name", "Name", "名前", "カード名"}
	typeKeys    = []string{"種類", "Type", "type"}
	attrKeys    = []string{"属性", "Attribute", "attribute"}
	colorKeys   = []string{"色", "Color", "color"}
	costKeys    = []string{"コスト", "Cost", "cost"}
	powerKeys   = []string{"パワー", "Power", "power"}
	counterKeys = []string{"カウンター", "Counter", "counter"}
	lifeKeys    = []string{"ライフ", "Life", "life"}
	traitsKeys  = []string{"特徴", "Traits", "traits"}
	textKeys    = []string{"効果(テキスト)", "テキスト", "Text", "text"}
	triggerKeys = []string{"効果(トリガー)", "トリガー", "Trigger", "trigger"}
)

var printedKeywords = []string{
	cards.KeywordBlocker,
	cards.KeywordRush,
	cards.KeywordDoubleAttack,
	cards.KeywordBanish,
}

// Loader materializes CardMaster definitions lazily from the raw database
// and caches them by card id. Safe for concurrent use.
type Loader struct {
	logger log.Logger

	sync.RWMutex
	raw   []map[string]any
	cache map[string]*cards.CardMaster
}

// NewLoader creates a loader over the database at path. An empty path loads
// the built-in demo set so a bare server can still create games.
func NewLoader(path string, logger log.Logger) (*Loader, error) {
	l := &Loader{
		logger: logger,
		cache:  map[string]*cards.CardMaster{},
	}
	if path == "" {
		l.raw = demoCardDatabase()
		logger.Info("card database not configured, using built-in demo set",
			tag.Value(len(l.raw)))
		return l, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading card database %s: %w", path, err)
	}
	var entries []map[string]any
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("decoding card database %s: %w", path, err)
	}
	l.raw = entries
	logger.Info("card database initialized", tag.Value(len(entries)))
	return l, nil
}

// Card returns the master definition for cardID, building and caching it on
// first use.
func (l *Loader) Card(cardID string) (*cards.CardMaster, error) {
	l.RLock()
	if master, ok := l.cache[cardID]; ok {
		l.RUnlock()
		return master, nil
	}
	l.RUnlock()

	l.Lock()
	defer l.Unlock()
	if master, ok := l.cache[cardID]; ok {
		return master, nil
	}
	for _, item := range l.raw {
		normalized := normalizeKeys(item)
		itemID := cards.NormalizeText(stringValue(lookup(normalized, idKeys)))
		if itemID != cardID {
			continue
		}
		master := buildMaster(normalized)
		if master == nil {
			break
		}
		l.cache[cardID] = master
		return master, nil
	}
	l.logger.Error("card id not found in database", tag.CardID(cardID))
	return nil, fmt.Errorf("card id not found in database: %s", cardID)
}

func normalizeKeys(item map[string]any) map[string]any {
	normalized := make(map[string]any, len(item))
	for k, v := range item {
		normalized[cards.NormalizeText(k)] = v
	}
	return normalized
}

func lookup(item map[string]any, keys []string) any {
	for _, k := range keys {
		if v, ok := item[cards.NormalizeText(k)]; ok {
			return v
		}
	}
	return nil
}

func stringValue(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	default:
		return fmt.Sprintf("%v", val)
	}
}

func buildMaster(raw map[string]any) *cards.CardMaster {
	cardID := cards.NormalizeText(stringValue(lookup(raw, idKeys)))
	if cardID == "" || cardID == "N/A" || strings.Contains(strings.ToLower(cardID), "dummy") {
		return nil
	}

	effectText := cards.NormalizeText(stringValue(lookup(raw, textKeys)))
	triggerText := cards.NormalizeText(stringValue(lookup(raw, triggerKeys)))

	abilities := effects.ManualAbilities(cardID)
	if abilities == nil {
		abilities = effects.ParseAbilities(effectText)
	}
	for _, a := range parseTriggerAbilities(triggerText) {
		abilities = append(abilities, a)
	}

	return &cards.CardMaster{
		ID:          cardID,
		Name:        cards.NormalizeText(stringValue(lookup(raw, nameKeys))),
		Type:        cards.ParseCardType(stringValue(lookup(raw, typeKeys))),
		Color:       cards.ParseColor(stringValue(lookup(raw, colorKeys))),
		Cost:        cards.ParseTolerantInt(stringValue(lookup(raw, costKeys)), 0),
		Power:       cards.ParseTolerantInt(stringValue(lookup(raw, powerKeys)), 0),
		Counter:     cards.ParseTolerantInt(stringValue(lookup(raw, counterKeys)), 0),
		Life:        cards.ParseTolerantInt(stringValue(lookup(raw, lifeKeys)), 0),
		Attribute:   cards.ParseAttribute(stringValue(lookup(raw, attrKeys))),
		Traits:      cards.ParseTraits(stringValue(lookup(raw, traitsKeys))),
		EffectText:  effectText,
		TriggerText: triggerText,
		Keywords:    detectKeywords(effectText),
		Abilities:   abilities,
	}
}

// parseTriggerAbilities parses the trigger box text; everything in it fires
// with trigger timing regardless of the wording.
func parseTriggerAbilities(triggerText string) []*cards.Ability {
	if triggerText == "" || triggerText == "なし" || triggerText == "None" {
		return nil
	}
	abilities := effects.ParseAbilities(triggerText)
	for _, a := range abilities {
		a.Trigger = cards.TriggerTrigger
	}
	return abilities
}

// detectKeywords finds printed keyword abilities by their bracket markers.
// Bare occurrences inside targeting phrases ("ブロッカーを持つキャラ") do
// not count.
func detectKeywords(effectText string) []string {
	var keywords []string
	for _, kw := range printedKeywords {
		if strings.Contains(effectText, "『"+kw+"』") ||
			strings.Contains(effectText, "【"+kw+"】") ||
			strings.Contains(effectText, "《"+kw+"》") {
			keywords = append(keywords, kw)
		}
	}
	return keywords
}

type deckEntry struct {
	Number string `json:"number"`
	Count  int    `json:"count"`
}

type deckFile struct {
	Leader *deckEntry  `json:"leader"`
	Cards  []deckEntry `json:"cards"`
}

// DeckLoader builds playable deck instances from deck list JSON.
type DeckLoader struct {
	loader *Loader
	logger log.Logger
}

// NewDeckLoader creates a deck loader backed by the given card database.
func NewDeckLoader(loader *Loader, logger log.Logger) *DeckLoader {
	return &DeckLoader{loader: loader, logger: logger}
}

// LoadFile reads a deck list from disk and instantiates it for ownerID.
func (d *DeckLoader) LoadFile(path string, ownerID string) (*cards.CardInstance, []*cards.CardInstance, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("reading deck file %s: %w", path, err)
	}
	return d.Parse(data, ownerID)
}

// Parse instantiates a deck list for ownerID. Both a bare deck object and a
// single-element array around it are accepted.
func (d *DeckLoader) Parse(data []byte, ownerID string) (*cards.CardInstance, []*cards.CardInstance, error) {
	var df deckFile
	trimmed := strings.TrimSpace(string(data))
	if strings.HasPrefix(trimmed, "[") {
		var wrapped []deckFile
		if err := json.Unmarshal(data, &wrapped); err != nil {
			return nil, nil, fmt.Errorf("decoding deck list: %w", err)
		}
		if len(wrapped) == 0 {
			return nil, nil, fmt.Errorf("deck list array is empty")
		}
		df = wrapped[0]
	} else if err := json.Unmarshal(data, &df); err != nil {
		return nil, nil, fmt.Errorf("decoding deck list: %w", err)
	}
	return d.build(df, ownerID)
}

// Demo instantiates one of the built-in demo decks.
func (d *DeckLoader) Demo(name string, ownerID string) (*cards.CardInstance, []*cards.CardInstance, error) {
	df, ok := demoDecks[name]
	if !ok {
		return nil, nil, fmt.Errorf("unknown demo deck: %s", name)
	}
	return d.build(df, ownerID)
}

// DemoDeckNames lists the built-in demo decks.
func DemoDeckNames() []string {
	names := make([]string, 0, len(demoDecks))
	for name := range demoDecks {
		names = append(names, name)
	}
	return names
}

func (d *DeckLoader) build(df deckFile, ownerID string) (*cards.CardInstance, []*cards.CardInstance, error) {
	var leader *cards.CardInstance
	if df.Leader != nil && df.Leader.Number != "" {
		master, err := d.loader.Card(df.Leader.Number)
		if err != nil {
			return nil, nil, err
		}
		leader = cards.NewCardInstance(master, ownerID)
	}

	var deck []*cards.CardInstance
	for _, entry := range df.Cards {
		master, err := d.loader.Card(entry.Number)
		if err != nil {
			return nil, nil, err
		}
		for i := 0; i < entry.Count; i++ {
			deck = append(deck, cards.NewCardInstance(master, ownerID))
		}
	}

	leaderName := "none"
	if leader != nil {
		leaderName = leader.Master.Name
	}
	d.logger.Info("deck loaded",
		tag.Message(leaderName), tag.Value(len(deck)), tag.PlayerID(ownerID))
	return leader, deck, nil
}
