package inference

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// BPETokenizer implements a minimal RoBERTa-compatible byte-level BPE
// tokenizer backed by vocab.json and merges.txt.
type BPETokenizer struct {
	vocab      map[string]int64
	mergeRanks map[[2]string]int
	byteToRune [256]rune
	bosID      int64
	eosID      int64
	padID      int64
	unkID      int64
}

// LoadBPETokenizer builds the tokenizer from a directory holding vocab.json
// and merges.txt (directly or under tokenizer/).
func LoadBPETokenizer(dir string) (*BPETokenizer, error) {
	vocabPath, err := findAsset(dir, "vocab.json")
	if err != nil {
		return nil, err
	}
	mergesPath, err := findAsset(dir, "merges.txt")
	if err != nil {
		return nil, err
	}

	vocab, err := loadVocab(vocabPath)
	if err != nil {
		return nil, fmt.Errorf("load vocab: %w", err)
	}
	ranks, err := loadMerges(mergesPath)
	if err != nil {
		return nil, fmt.Errorf("load merges: %w", err)
	}

	t := &BPETokenizer{
		vocab:      vocab,
		mergeRanks: ranks,
		bosID:      vocab["<s>"],
		eosID:      vocab["</s>"],
		padID:      vocab["<pad>"],
		unkID:      vocab["<unk>"],
	}
	t.byteToRune = bytesToUnicode()
	return t, nil
}

func findAsset(dir, name string) (string, error) {
	candidates := []string{
		filepath.Join(dir, name),
		filepath.Join(dir, "tokenizer", name),
	}
	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}
	return "", fmt.Errorf("tokenizer asset %s not found under %s", name, dir)
}

func loadVocab(path string) (map[string]int64, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var vocab map[string]int64
	if err := json.Unmarshal(data, &vocab); err != nil {
		return nil, err
	}
	if len(vocab) == 0 {
		return nil, fmt.Errorf("vocab.json is empty")
	}
	return vocab, nil
}

func loadMerges(path string) (map[[2]string]int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	ranks := make(map[[2]string]int)
	sc := bufio.NewScanner(f)
	rank := 0
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#version") {
			continue
		}
		parts := strings.Fields(line)
		if len(parts) != 2 {
			continue
		}
		ranks[[2]string{parts[0], parts[1]}] = rank
		rank++
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return ranks, nil
}

// bytesToUnicode is the GPT-2 reversible byte-to-printable-rune mapping the
// vocab files are written in.
func bytesToUnicode() [256]rune {
	var table [256]rune
	assigned := make(map[int]bool)
	inPrintable := func(b int) bool {
		return (b >= '!' && b <= '~') || (b >= 0xA1 && b <= 0xAC) || (b >= 0xAE && b <= 0xFF)
	}
	for b := 0; b < 256; b++ {
		if inPrintable(b) {
			table[b] = rune(b)
			assigned[b] = true
		}
	}
	n := 0
	for b := 0; b < 256; b++ {
		if !assigned[b] {
			table[b] = rune(256 + n)
			n++
		}
	}
	return table
}

// Encode converts text into token IDs and an attention mask of length
// seqLen. Longer inputs are truncated, not rejected.
func (t *BPETokenizer) Encode(text string, seqLen int) ([]int64, []int64) {
	if seqLen <= 0 {
		return nil, nil
	}

	tokens := []int64{t.bosID}
	words := strings.Fields(text)
	for i, w := range words {
		if i > 0 {
			// Byte-level BPE folds the separating space into the
			// following word.
			w = " " + w
		}
		for _, id := range t.encodeWord(w) {
			tokens = append(tokens, id)
			if len(tokens) >= seqLen-1 {
				break
			}
		}
		if len(tokens) >= seqLen-1 {
			break
		}
	}
	tokens = append(tokens, t.eosID)

	attn := make([]int64, seqLen)
	for i := 0; i < len(tokens) && i < seqLen; i++ {
		attn[i] = 1
	}

	for len(tokens) < seqLen {
		tokens = append(tokens, t.padID)
	}

	return tokens, attn
}

// encodeWord maps one pretokenized word through the byte mapping and the
// merge table.
func (t *BPETokenizer) encodeWord(word string) []int64 {
	raw := []byte(word)
	parts := make([]string, len(raw))
	for i, b := range raw {
		parts[i] = string(t.byteToRune[b])
	}

	parts = t.applyMerges(parts)

	ids := make([]int64, 0, len(parts))
	for _, p := range parts {
		if id, ok := t.vocab[p]; ok {
			ids = append(ids, id)
		} else {
			ids = append(ids, t.unkID)
		}
	}
	return ids
}

// applyMerges greedily merges the lowest-ranked adjacent pair until no
// mergeable pair remains.
func (t *BPETokenizer) applyMerges(parts []string) []string {
	for len(parts) > 1 {
		bestRank := -1
		bestIdx := -1
		for i := 0; i < len(parts)-1; i++ {
			if rank, ok := t.mergeRanks[[2]string{parts[i], parts[i+1]}]; ok {
				if bestRank < 0 || rank < bestRank {
					bestRank = rank
					bestIdx = i
				}
			}
		}
		if bestIdx < 0 {
			break
		}
		merged := parts[bestIdx] + parts[bestIdx+1]
		parts = append(parts[:bestIdx], append([]string{merged}, parts[bestIdx+2:]...)...)
	}
	return parts
}
