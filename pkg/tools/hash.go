// Copyright 2026 © The Foundry Authors
// SPDX-License-Identifier: Apache-2.0

package tools

import (
	"encoding/json"
	"hash/fnv"
)

// hashInput derives a stable seed from a tool input so mock results are
// deterministic for the same parameter set. Map keys are sorted by
// json.Marshal, which keeps the digest order-independent.
func hashInput(input map[string]any) uint64 {
	data, err := json.Marshal(input)
	if err != nil {
		return 0
	}
	h := fnv.New64a()
	h.Write(data)
	return h.Sum64()
}
