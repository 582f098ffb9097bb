package storage

import "io"

// progressReader wraps an upload stream and reports whole-percentage
// progress as bytes pass through. Emissions are monotone and deduplicated;
// 100 fires once the full size has been read.
type progressReader struct {
	r       io.Reader
	total   int64
	read    int64
	lastPct int
	fn      ProgressFunc
}

func newProgressReader(r io.Reader, total int64, fn ProgressFunc) *progressReader {
	return &progressReader{r: r, total: total, lastPct: -1, fn: fn}
}

func (p *progressReader) Read(b []byte) (int, error) {
	n, err := p.r.Read(b)
	if n > 0 {
		p.read += int64(n)
		pct := int(p.read * 100 / p.total)
		if pct > 100 {
			pct = 100
		}
		if pct > p.lastPct {
			p.lastPct = pct
			p.fn(pct)
		}
	}
	return n, err
}
