// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

// Package glslsrc extracts a normalized form from GLSL shader source.
//
// Parsing one source unit produces a ShaderCode: the unit's text with
// comments removed, the catalog of declared inputs and uniforms, the
// #version directive and the points where other units have to be
// spliced in by a loader.
//
// # Components
//
//   - Lexer: splits source into run-length encoded tokens
//   - scanner: tries an ordered list of recognizers at each position,
//     rolling back partial results when a recognizer does not match
//   - recognizers: comments, {} blocks, #version, #include and
//     input/uniform declarations
//   - builder: re-walks the tokens and assembles the output text
//
// # Usage
//
//	ids := func(name string) (int, error) { return registry.ID(name), nil }
//	code, err := glslsrc.Parse(source, ids)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// # Annotations
//
// A field may carry a semantic alias written in brackets on the same line
// or the line above:
//
//	[POSITION]
//	layout(location = 0) in vec3 pos;
//
// The annotation is removed from the output text.
//
// Declarations inside {} blocks are never cataloged. Includes are only
// recorded; the included text is not read.
package glslsrc
