package embedding

// Pooling strategies for the ONNX output.
const (
	// PoolingNone expects the model to emit a [1, dims] sentence embedding.
	PoolingNone = "none"
	// PoolingMean averages [1, seq, dims] token embeddings over the attention mask.
	PoolingMean = "mean"
)

// ONNXConfig describes a local ONNX embedding model.
type ONNXConfig struct {
	ModelPath         string
	TokenizerPath     string
	SharedLibraryPath string
	ModelID           string
	Dimensions        int
	MaxTokens         int
	OutputName        string
	Pooling           string
}

func (c ONNXConfig) withDefaults() ONNXConfig {
	if c.Dimensions <= 0 {
		c.Dimensions = 384
	}
	if c.MaxTokens <= 0 {
		c.MaxTokens = 256
	}
	if c.Pooling == "" {
		c.Pooling = PoolingMean
	}
	if c.OutputName == "" {
		if c.Pooling == PoolingMean {
			c.OutputName = "last_hidden_state"
		} else {
			c.OutputName = "output"
		}
	}
	if c.ModelID == "" {
		c.ModelID = "all-MiniLM-L6-v2"
	}
	return c
}

// MeanPool averages token vectors (row-major [seq, dims]) where mask is 1.
// An all-zero mask yields a zero vector.
func MeanPool(tokens []float32, mask []int64, dims int) []float32 {
	out := make([]float32, dims)
	var n float32
	for i, m := range mask {
		if m == 0 {
			continue
		}
		off := i * dims
		if off+dims > len(tokens) {
			break
		}
		for d := 0; d < dims; d++ {
			out[d] += tokens[off+d]
		}
		n++
	}
	if n == 0 {
		return out
	}
	for d := range out {
		out[d] /= n
	}
	return out
}
