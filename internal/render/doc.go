// Package render draws detected marking points and parking slots on top of
// the camera image they were detected in.
//
// Point coordinates are normalized to [0,1], so the same detections can be
// drawn on an image of any size. The result is PNG encoded and returned as
// base64, ready to embed in an MCP text response:
//
//	img, err := render.Open("/path/to/frame.jpg")
//	result, err := render.Overlay(img, points, slots, render.DefaultOptions())
package render
