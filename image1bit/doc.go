// Package image1bit provides a 1-bit image format for the ST7920 LCD controller.
//
// The ST7920 GDRAM stores pixels in horizontal MSB-first packing where each
// byte contains 8 pixels and the display consumes them as 16-bit words.
//
// Memory layout example for the first 16 pixels of a row:
//
//	Pixels: 0 1 2 3 4 5 6 7   8 9 10 11 12 13 14 15
//	Byte 0: bit 7 is pixel 0, bit 0 is pixel 7
//	Byte 1: bit 7 is pixel 8, bit 0 is pixel 15
//
// This package provides:
//
// - Bit: a color type representing a single on/off pixel
// - BitModel: a color model converting standard Go colors to Bit
// - Blend: the boolean operators used to combine incoming pixels
// - HorizontalMSB: an image.Image and draw.Image implementation optimized
// for the ST7920 transfer granularity
//
// Example usage:
//
//	// Create a 128x64 buffer
//	img := image1bit.NewHorizontalMSB(image.Rect(0, 0, 128, 64))
//
//	// Turn a pixel on
//	img.SetBit(10, 20, image1bit.On)
//
//	// Toggle a pixel
//	img.SetBlend(10, 20, true, image1bit.XOR)
//
//	// Use with standard Go image operations
//	draw.Draw(img, img.Bounds(), image.NewUniform(image1bit.On), image.Point{}, draw.Src)
package image1bit
