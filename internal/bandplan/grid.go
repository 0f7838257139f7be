package bandplan

// Grid is the discretized model of a frequency channel. The channel is
// centred on 0 Hz and divided into NBins sub-intervals of BinBandwidth Hz
// each. Bin i spans [Edges[i], Edges[i+1]) and is centred on Centers[i].
type Grid struct {
	ChannelBandwidth float64   // Total channel bandwidth in Hz
	NBins            int       // Number of bins the channel is divided into
	BinBandwidth     float64   // Width of a single bin in Hz
	Edges            []float64 // NBins+1 bin edge frequencies, ascending
	Centers          []float64 // NBins bin centre frequencies, ascending
}

// NewGrid derives the bin edges and centres for a channel of the given
// bandwidth divided into nBins bins. nBins must be >= 1; this is the
// caller's responsibility.
func NewGrid(channelBandwidth float64, nBins int) Grid {
	binBandwidth := channelBandwidth / float64(nBins)

	edges := make([]float64, nBins+1)
	for i := range edges {
		edges[i] = float64(i)*binBandwidth - channelBandwidth/2
	}

	centers := make([]float64, nBins)
	for i := range centers {
		centers[i] = edges[i] + binBandwidth/2
	}

	return Grid{
		ChannelBandwidth: channelBandwidth,
		NBins:            nBins,
		BinBandwidth:     binBandwidth,
		Edges:            edges,
		Centers:          centers,
	}
}
