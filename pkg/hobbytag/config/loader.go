package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/cognicore/hobbytag/pkg/hobbytag/ingest"
	"github.com/cognicore/hobbytag/pkg/hobbytag/internalerr"
	"github.com/cognicore/hobbytag/pkg/hobbytag/lexicon"
	"github.com/cognicore/hobbytag/pkg/hobbytag/stoplist"
)

// Loader loads the tagging tables and the canon dictionary and constructs
// components
type Loader struct {
	RulesPath    string // optional overlay on the built-in tables
	CanonPath    string // canon dictionary, JSON or YAML; empty disables the canon pipeline
	StemFallback bool
}

// Components holds all loaded configuration components
type Components struct {
	Tables *Tables

	// rule pipeline
	Stops      *stoplist.Manager
	Normalizer *ingest.Normalizer
	Parser     *ingest.MultiTokenParser
	Areas      *ingest.AreaRules

	// canon pipeline
	CanonStops      *stoplist.Manager
	CanonNormalizer *ingest.Normalizer
	Extractor       *ingest.CandidateExtractor
	Lexicon         *lexicon.Lexicon
}

// Load reads all configuration files and returns initialized components
func (l *Loader) Load() (*Components, error) {
	var (
		tables *Tables
		err    error
	)
	if l.RulesPath != "" {
		tables, err = LoadTables(l.RulesPath)
		if err != nil {
			return nil, fmt.Errorf("load rules: %w", err)
		}
	} else {
		tables, err = DefaultTables()
		if err != nil {
			return nil, err
		}
	}

	comp, err := Build(tables)
	if err != nil {
		return nil, err
	}

	if l.CanonPath != "" {
		lex, err := loadLexicon(l.CanonPath, comp.Extractor.CleanPhrase)
		if err != nil {
			return nil, fmt.Errorf("load canon dictionary: %w", err)
		}
		if l.StemFallback {
			lex.EnableStemFallback()
		}
		comp.Lexicon = lex
	}

	return comp, nil
}

// Build constructs components from tables without touching the filesystem.
func Build(tables *Tables) (*Components, error) {
	comp := &Components{Tables: tables}

	comp.Stops = stoplist.NewManager(tables.Rules.Stopwords)
	comp.Stops.AddNoise(tables.Rules.NoiseWords...)

	normalizer, err := ingest.NewNormalizer(ingest.RuleNormalizerConfig(tables.Rules.PhraseCorrections))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", internalerr.ErrInvalidConfig, err)
	}
	comp.Normalizer = normalizer
	comp.Parser = ingest.NewMultiTokenParser(tables.Rules.Multiword)

	comp.Areas = ingest.NewAreaRules(tables.Rules.Areas)
	comp.Areas.SetFallback(tables.Rules.FallbackArea)

	comp.CanonStops = stoplist.NewManager(tables.Canon.Stopwords)
	comp.CanonStops.AddInvalid(tables.Canon.InvalidValues...)
	comp.CanonStops.AddReject(tables.Canon.RejectWords...)

	canonNormalizer, err := ingest.NewNormalizer(ingest.CanonNormalizerConfig())
	if err != nil {
		return nil, err
	}
	comp.CanonNormalizer = canonNormalizer
	comp.Extractor = ingest.NewCandidateExtractor(canonNormalizer, comp.CanonStops, tables.Canon.NoisePhrases)

	return comp, nil
}

func loadLexicon(path string, key lexicon.KeyFunc) (*lexicon.Lexicon, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return lexicon.LoadFromYAML(path, key)
	default:
		return lexicon.LoadFromJSON(path, key)
	}
}

// NewTokenizer builds a fresh open-vocabulary tokenizer from the rule tables.
func (c *Components) NewTokenizer() *ingest.Tokenizer {
	tok := ingest.NewTokenizer(c.Stops, c.Parser, c.Tables.Rules.TokenCorrections)
	if c.Tables.Rules.KeepShort != nil {
		tok.SetKeepShort(c.Tables.Rules.KeepShort)
	}
	for _, conflict := range c.Tables.Rules.Conflicts {
		tok.AddConflict(conflict)
	}
	return tok
}

// RuleTagger builds the area-rule tagger. A max of zero uses the tables'
// max_keywords.
func (c *Components) RuleTagger(maxKeywords int) *ingest.RuleBased {
	if maxKeywords <= 0 {
		maxKeywords = c.Tables.Rules.MaxKeywords
	}
	return ingest.NewRuleBased(c.Normalizer, c.NewTokenizer(), c.Areas, maxKeywords)
}

// CanonTagger builds the canon dictionary tagger. It fails when no canon
// dictionary was loaded.
func (c *Components) CanonTagger(includeUnknown bool) (*ingest.CanonDictionary, error) {
	if c.Lexicon == nil {
		return nil, fmt.Errorf("%w: no canon dictionary loaded", internalerr.ErrInvalidConfig)
	}
	return ingest.NewCanonDictionary(c.Extractor, c.Lexicon, includeUnknown), nil
}
