package document

import (
	"math/rand"
)

// paddingFieldOverhead is the BSON cost of the padding element itself:
// 1 type byte + len("padding")+1 key bytes + 4 length-prefix bytes +
// 1 trailing NUL.
const paddingFieldOverhead = 14

// paddingChars is the character set for padding content. Spaces are
// repeated so padded text compresses and samples like real log-ish
// filler rather than uniform noise.
const paddingChars = "abcdefghijklmnopqrstuvwxyz" +
	"ABCDEFGHIJKLMNOPQRSTUVWXYZ" +
	"0123456789" +
	"          "

// SizeController pads documents so their serialized size lands inside
// [target*(1-variance), target*(1+variance)] bytes. Target draws use
// the shared math/rand source, so a controller may be used from
// multiple goroutines.
type SizeController struct {
	targetBytes int
	minSize     int
	maxSize     int
}

// NewSizeController creates a controller for a target size in KB and a
// variance fraction in [0, 1].
func NewSizeController(targetKB float64, variance float64) *SizeController {
	target := int(targetKB * 1024)
	return &SizeController{
		targetBytes: target,
		minSize:     int(float64(target) * (1 - variance)),
		maxSize:     int(float64(target) * (1 + variance)),
	}
}

// PaddingSize returns the padding length needed to bring a document of
// baseSize serialized bytes to a randomly drawn target within the
// configured window. Returns 0 when the document already meets or
// exceeds the drawn target; documents are never truncated.
func (c *SizeController) PaddingSize(baseSize int) int {
	target := c.minSize + rand.Intn(c.maxSize-c.minSize+1)
	if n := target - baseSize - paddingFieldOverhead; n > 0 {
		return n
	}
	return 0
}

// Padding generates filler text of exactly the requested length. A
// non-positive size yields an empty string.
func (c *SizeController) Padding(size int) string {
	if size <= 0 {
		return ""
	}
	b := make([]byte, size)
	for i := range b {
		b[i] = paddingChars[rand.Intn(len(paddingChars))]
	}
	return string(b)
}

// Apply pads the document toward a freshly drawn target and returns its
// final serialized size. Documents already at or above the target are
// left unpadded.
func (c *SizeController) Apply(d *Document) (int, error) {
	base, err := d.Size()
	if err != nil {
		return 0, err
	}
	n := c.PaddingSize(base)
	if n > 0 {
		d.Padding = c.Padding(n)
		base += paddingFieldOverhead + n
	}
	d.SizeBytes = base
	return base, nil
}

// Bounds reports the controller's size window in bytes.
func (c *SizeController) Bounds() (min, max int) {
	return c.minSize, c.maxSize
}
