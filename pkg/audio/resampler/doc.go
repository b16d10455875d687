// Package resampler converts mono 16-bit PCM between sample rates using the
// pure Go github.com/tphakala/go-audio-resampling filter.
//
// Example usage:
//
//	r, err := resampler.New(cursor, 44100, 48000)
//	if err != nil {
//	    return err
//	}
//	defer r.Close()
//	io.Copy(output, r)
package resampler
