//go:build !asrc_paired

package farrow

// Default returns the kernel selected at build time.
func Default() Kernel { return Scalar }
