package embedding

import "testing"

func TestMeanPool(t *testing.T) {
	tokens := []float32{
		1, 2,
		3, 4,
		100, 100, // masked out
	}
	got := MeanPool(tokens, []int64{1, 1, 0}, 2)
	if got[0] != 2 || got[1] != 3 {
		t.Errorf("MeanPool = %v, want [2 3]", got)
	}
	zero := MeanPool(tokens, []int64{0, 0, 0}, 2)
	if zero[0] != 0 || zero[1] != 0 {
		t.Errorf("all-masked should be zero, got %v", zero)
	}
}

func TestONNXConfig_Defaults(t *testing.T) {
	c := ONNXConfig{}.withDefaults()
	if c.Dimensions != 384 || c.MaxTokens != 256 || c.Pooling != PoolingMean || c.OutputName != "last_hidden_state" {
		t.Errorf("unexpected defaults %+v", c)
	}
	c = ONNXConfig{Pooling: PoolingNone}.withDefaults()
	if c.OutputName != "output" {
		t.Errorf("OutputName = %q", c.OutputName)
	}
}
