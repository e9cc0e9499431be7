// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package tic uses a Pololu Tic stepper motor controller as a step source
// over I²C.
//
// Each step computed on the host moves the Tic's target position by one. The
// Tic's own speed limit is set high enough that it never lags behind the
// host profile.
//
// # Product Pages
//
// Tic T500: https://www.pololu.com/product/3134
//
// Tic T834: https://www.pololu.com/product/3132
//
// Tic T825: https://www.pololu.com/product/3130
//
// Tic T249: https://www.pololu.com/product/3138
//
// Tic 36v4: https://www.pololu.com/product/3140
package tic
