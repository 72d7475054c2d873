/*
 * Copyright (C) 2026 Trellis Data, Inc.
 *
 * SPDX-License-Identifier: Apache-2.0
 */

package fs

import (
	"fmt"

	"github.com/go-viper/mapstructure/v2"
)

// DecodeOptions decodes a flat options map into a driver settings
// struct. Decoding is weakly typed so values arriving as strings from
// flags or environment settings still land in int and bool fields.
// Unknown keys are left for the target's ",remain" field, if any.
func DecodeOptions(opts Options, target any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           target,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return fmt.Errorf("build options decoder: %w", err)
	}
	if err := dec.Decode(map[string]any(opts)); err != nil {
		return fmt.Errorf("decode storage options: %w", err)
	}
	return nil
}
