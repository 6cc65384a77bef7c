package percentile

const (
	// NoSpectralAxis marks a view without a spectral axis.
	NoSpectralAxis = -1

	// AllChannels as HistogramParams.MaxChannel extends the range to the last frame.
	AllChannels = -1

	DefaultHistogramBins = 25

	// AutoBins as HistogramParams.Bins derives the bin count from the data.
	AutoBins = -1

	maxAutoBins           = 10000
	scottBinWidthConstant = 3.49
	iqrNormalize          = 1.349

	// ClipErrorMargin is the tolerance used to match clip values.
	ClipErrorMargin = 0.000001

	// ranges this short are finished with an insertion sort
	insertionSortThreshold = 16
)

var (
	DefaultClips = []float64{0.9, 0.925, 0.95, 0.96, 0.97, 0.98, 0.99, 0.995, 0.999, 1}
)
