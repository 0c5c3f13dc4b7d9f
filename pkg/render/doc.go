// Package render rasterizes puzzle states into images.
//
// # Overview
//
// A [Renderer] paints filled discs on a blank canvas using fogleman/gg:
// remaining targets first, then the eater on top. It produces the three
// kinds of images a task needs:
//
//   - [Renderer.Initial]: the eater and every target at their start positions
//   - [Renderer.Final]: the eater alone, re-centered, at its final size
//   - [Renderer.State]: one animation frame from package animate
//
// Images are returned as image.Image and can be encoded with [EncodePNG].
//
//	r := render.New(512, 512, render.DefaultPalette())
//	first := r.Initial(inst)
//	data, err := render.EncodePNG(first)
package render
