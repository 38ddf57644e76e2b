package hance

type (
	// Loader loads models from files. Implementations should wrap
	// failures with ErrLoad.
	Loader interface {
		Load(path string) (Model, error)
	}

	// LoaderFunc adapts a function to Loader interface.
	LoaderFunc func(path string) (Model, error)

	// Model is a loaded enhancement model. Its bus set is fixed once the
	// model is loaded and bus indices never change.
	Model interface {
		// NumBuses returns number of output buses.
		NumBuses() int
		// BusName returns the name of the bus. Index must be valid.
		BusName(i int) string
		// Bind returns a transformer for the audio format. Unsupported
		// combinations should be wrapped with ErrBind.
		Bind(channels int, sampleRate float64) (Transformer, error)
		// Release frees the model. Transformers bound to the model are
		// invalid after release.
		Release() error
	}

	// Transformer is a stateful engine instance bound to a single audio
	// format. It keeps filter history and latency buffers between calls
	// and must not be shared between streams.
	Transformer interface {
		// BlockSize is the number of frames consumed per Transform call.
		BlockSize() int
		// Latency is the number of leading output frames that don't
		// carry input signal. Engines that withhold output until it's
		// ready instead of padding it should return zero.
		Latency() int
		// Transform processes exactly BlockSize frames and returns one
		// block per bus. All returned blocks have the same number of
		// frames. Returned blocks may be reused by the next call.
		Transform(in Block) ([]Block, error)
	}

	// Resetter is implemented by transformers that can clear their
	// internal state.
	Resetter interface {
		Reset() error
	}

	// SensitivityTuner is implemented by transformers that expose the
	// detection sensitivity of their buses.
	SensitivityTuner interface {
		SetSensitivity(bus int, value float32) error
	}
)

// Load calls fn(path).
func (fn LoaderFunc) Load(path string) (Model, error) {
	return fn(path)
}
