package inference

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"sync"

	ort "github.com/yalue/onnxruntime_go"

	"github.com/clinassure/bias-audit-api/internal/domain/entity"
)

const modelFileName = "model.onnx"

// Model wraps the ONNX session and tokenizer for the fine-tuned bias
// classifier. The session's tensor buffers are shared, so Run is serialized
// behind a mutex; everything else is read-only after load.
type Model struct {
	session   *ort.AdvancedSession
	tokenizer *BPETokenizer
	labels    []entity.BiasLabel
	seqLen    int

	inputIDs      *ort.Tensor[int64]
	attentionMask *ort.Tensor[int64]
	output        *ort.Tensor[float32]

	mu sync.Mutex
}

// LoadModel initializes the ONNX session, tokenizer, and label map. Any
// failure here is fatal to startup: serving without a model is not an option.
func LoadModel(path string, seqLen int) (*Model, error) {
	if path == "" {
		return nil, errors.New("model path is empty")
	}
	if seqLen <= 0 {
		seqLen = 128
	}

	dir, err := ResolveModelDir(path)
	if err != nil {
		return nil, err
	}

	libPath := resolveSharedLibraryPath(dir)
	if libPath == "" {
		return nil, fmt.Errorf("onnxruntime shared library not found; set ONNXRUNTIME_SHARED_LIBRARY_PATH or install the runtime")
	}
	ort.SetSharedLibraryPath(libPath)
	if !ort.IsInitialized() {
		if err := ort.InitializeEnvironment(); err != nil {
			return nil, fmt.Errorf("initialize onnxruntime: %w", err)
		}
	}

	labels, err := loadLabelMap(filepath.Join(dir, "label_map.json"))
	if err != nil {
		return nil, fmt.Errorf("load label map: %w", err)
	}

	tokenizer, err := LoadBPETokenizer(dir)
	if err != nil {
		return nil, fmt.Errorf("load tokenizer: %w", err)
	}

	inputShape := ort.NewShape(1, int64(seqLen))
	inputIDs, err := ort.NewEmptyTensor[int64](inputShape)
	if err != nil {
		return nil, fmt.Errorf("allocate input_ids tensor: %w", err)
	}
	attnMask, err := ort.NewEmptyTensor[int64](inputShape)
	if err != nil {
		return nil, fmt.Errorf("allocate attention_mask tensor: %w", err)
	}
	output, err := ort.NewEmptyTensor[float32](ort.NewShape(1, int64(len(labels))))
	if err != nil {
		return nil, fmt.Errorf("allocate output tensor: %w", err)
	}

	session, err := ort.NewAdvancedSession(
		filepath.Join(dir, modelFileName),
		[]string{"input_ids", "attention_mask"},
		[]string{"logits"},
		[]ort.Value{inputIDs, attnMask},
		[]ort.Value{output},
		nil,
	)
	if err != nil {
		return nil, fmt.Errorf("create onnx session: %w", err)
	}

	return &Model{
		session:       session,
		tokenizer:     tokenizer,
		labels:        labels,
		seqLen:        seqLen,
		inputIDs:      inputIDs,
		attentionMask: attnMask,
		output:        output,
	}, nil
}

// ResolveModelDir returns the directory holding the model file. When the
// configured path does not hold one directly, the lexicographically last
// subdirectory is tried, which supports checkpoint-directory layouts
// (checkpoint-100, checkpoint-200, ...).
func ResolveModelDir(path string) (string, error) {
	if _, err := os.Stat(filepath.Join(path, modelFileName)); err == nil {
		return path, nil
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		return "", fmt.Errorf("model directory unreadable at %s: %w", path, err)
	}

	var subdirs []string
	for _, e := range entries {
		if e.IsDir() {
			subdirs = append(subdirs, e.Name())
		}
	}
	if len(subdirs) == 0 {
		return "", fmt.Errorf("no %s under %s and no checkpoint subdirectories", modelFileName, path)
	}
	sort.Strings(subdirs)

	last := filepath.Join(path, subdirs[len(subdirs)-1])
	if _, err := os.Stat(filepath.Join(last, modelFileName)); err != nil {
		return "", fmt.Errorf("no %s in checkpoint directory %s: %w", last, modelFileName, err)
	}
	return last, nil
}

// loadLabelMap reads the persisted index->label table. Accepts either a JSON
// array or an index-keyed object; falls back to the training-time default
// order when the file is absent.
func loadLabelMap(path string) ([]entity.BiasLabel, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return entity.DefaultLabelOrder, nil
		}
		return nil, err
	}

	var arr []string
	if err := json.Unmarshal(data, &arr); err == nil && len(arr) > 0 {
		return toLabels(arr)
	}

	var m map[string]string
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	arr = make([]string, len(m))
	for k, v := range m {
		idx, err := strconv.Atoi(k)
		if err != nil || idx < 0 || idx >= len(arr) {
			return nil, fmt.Errorf("label map has invalid index %q", k)
		}
		arr[idx] = v
	}
	return toLabels(arr)
}

func toLabels(names []string) ([]entity.BiasLabel, error) {
	labels := make([]entity.BiasLabel, len(names))
	for i, name := range names {
		label := entity.BiasLabel(name)
		if !label.IsValid() {
			return nil, fmt.Errorf("label map contains unknown label %q at index %d", name, i)
		}
		labels[i] = label
	}
	return labels, nil
}

func resolveSharedLibraryPath(modelDir string) string {
	if p := os.Getenv("ONNXRUNTIME_SHARED_LIBRARY_PATH"); p != "" {
		return p
	}
	candidates := []string{
		filepath.Join(modelDir, "libonnxruntime.so"),
		"/usr/local/lib/libonnxruntime.so",
		"/usr/lib/libonnxruntime.so",
	}
	for _, p := range candidates {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

// Predict runs inference on a single text. The text is truncated to the
// configured token budget; truncation is policy, not an error.
func (m *Model) Predict(text string) (entity.BiasLabel, float64, error) {
	if m == nil || m.session == nil || m.tokenizer == nil {
		return "", 0, errors.New("model not initialized")
	}

	ids, attn := m.tokenizer.Encode(text, m.seqLen)

	m.mu.Lock()
	defer m.mu.Unlock()

	copy(m.inputIDs.GetData(), ids)
	copy(m.attentionMask.GetData(), attn)

	if err := m.session.Run(); err != nil {
		return "", 0, fmt.Errorf("onnx run: %w", err)
	}

	logits := m.output.GetData()
	probs := softmax(logits)
	idx := argmax(probs)
	if idx < 0 || idx >= len(m.labels) {
		return "", 0, fmt.Errorf("argmax index %d out of label range", idx)
	}

	return m.labels[idx], probs[idx], nil
}

// Labels returns the index->label table in effect
func (m *Model) Labels() []entity.BiasLabel {
	return m.labels
}

// Destroy releases the session and tensor buffers
func (m *Model) Destroy() {
	if m == nil {
		return
	}
	if m.session != nil {
		m.session.Destroy()
	}
	if m.inputIDs != nil {
		m.inputIDs.Destroy()
	}
	if m.attentionMask != nil {
		m.attentionMask.Destroy()
	}
	if m.output != nil {
		m.output.Destroy()
	}
}

// softmax converts logits to probabilities, shifted by the max for stability
func softmax(logits []float32) []float64 {
	if len(logits) == 0 {
		return nil
	}
	maxLogit := logits[0]
	for _, l := range logits[1:] {
		if l > maxLogit {
			maxLogit = l
		}
	}
	probs := make([]float64, len(logits))
	var sum float64
	for i, l := range logits {
		probs[i] = math.Exp(float64(l - maxLogit))
		sum += probs[i]
	}
	for i := range probs {
		probs[i] /= sum
	}
	return probs
}

// argmax returns the first index attaining the maximum
func argmax(probs []float64) int {
	if len(probs) == 0 {
		return -1
	}
	best := 0
	for i, p := range probs[1:] {
		if p > probs[best] {
			best = i + 1
		}
	}
	return best
}
