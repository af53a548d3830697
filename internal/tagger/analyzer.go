package tagger

import (
	"bufio"
	_ "embed"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
)

// POS is a coarse part-of-speech label.
type POS string

// Parts of speech the dictionary format knows about.
const (
	Noun      POS = "NOUN"
	Adjective POS = "ADJF"
	Verb      POS = "VERB"
	Adverb    POS = "ADVB"
	Other     POS = "OTHR"
)

// Parse is one morphological reading of a word.
type Parse struct {
	Lemma string
	POS   POS
}

// Analyzer looks up the most probable reading of a lowercased word.
type Analyzer interface {
	Parse(word string) (Parse, bool)
}

//go:embed dict_ru.tsv
var builtinDictionary string

// Dictionary is an Analyzer backed by a word form table.
// It is safe for concurrent use and can be reloaded in place.
type Dictionary struct {
	mu      sync.RWMutex
	entries map[string]Parse
}

// Builtin returns a Dictionary loaded from the embedded word list.
func Builtin() *Dictionary {
	d := &Dictionary{}
	if err := d.load(strings.NewReader(builtinDictionary)); err != nil {
		panic(fmt.Sprintf("embedded dictionary is malformed: %v", err))
	}
	return d
}

// LoadDictionary reads a dictionary in the word<TAB>lemma<TAB>POS format.
// Blank lines and lines starting with '#' are skipped. When a word form is
// listed more than once, the first reading wins.
func LoadDictionary(r io.Reader) (*Dictionary, error) {
	d := &Dictionary{}
	if err := d.load(r); err != nil {
		return nil, err
	}
	return d, nil
}

// LoadDictionaryFile is LoadDictionary on a file.
func LoadDictionaryFile(path string) (*Dictionary, error) {
	f, err := os.Open(path) //#nosec G304 -- dictionary path comes from configuration
	if err != nil {
		return nil, fmt.Errorf("open dictionary: %w", err)
	}
	defer f.Close()
	return LoadDictionary(f)
}

// Reload replaces the dictionary contents with the file at path.
// On error the current contents are kept.
func (d *Dictionary) Reload(path string) error {
	next, err := LoadDictionaryFile(path)
	if err != nil {
		return err
	}
	next.mu.RLock()
	entries := next.entries
	next.mu.RUnlock()

	d.mu.Lock()
	d.entries = entries
	d.mu.Unlock()
	return nil
}

// Len returns the number of word forms known.
func (d *Dictionary) Len() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.entries)
}

// Parse implements Analyzer.
func (d *Dictionary) Parse(word string) (Parse, bool) {
	d.mu.RLock()
	p, ok := d.entries[word]
	d.mu.RUnlock()
	return p, ok
}

func (d *Dictionary) load(r io.Reader) error {
	entries := make(map[string]Parse)
	scanner := bufio.NewScanner(r)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.Split(line, "\t")
		if len(fields) != 3 {
			return fmt.Errorf("line %d: want 3 tab-separated fields, got %d", lineNum, len(fields))
		}

		word := strings.ToLower(strings.TrimSpace(fields[0]))
		lemma := strings.ToLower(strings.TrimSpace(fields[1]))
		if word == "" || lemma == "" {
			return fmt.Errorf("line %d: empty word or lemma", lineNum)
		}
		if _, exists := entries[word]; exists {
			continue
		}
		entries[word] = Parse{Lemma: lemma, POS: POS(strings.ToUpper(strings.TrimSpace(fields[2])))}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read dictionary: %w", err)
	}

	d.mu.Lock()
	d.entries = entries
	d.mu.Unlock()
	return nil
}
