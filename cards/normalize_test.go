// Copyright (c) 2026 opcg-sim-backend Authors
// SPDX-License-Identifier: Apache-2.0

package cards

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeText(t *testing.T) {
	assert.Equal(t, "OP13-079", NormalizeText(" OP13-079 "))
	assert.Equal(t, "OP13-079", NormalizeText("OP13-079"))
	assert.Equal(t, "5000", NormalizeText("5000"))
	assert.Equal(t, "", NormalizeText("   "))
}

func TestParseTolerantInt(t *testing.T) {
	assert.Equal(t, 5000, ParseTolerantInt("5000", 0))
	assert.Equal(t, 5000, ParseTolerantInt("5000", 0))
	assert.Equal(t, 2000, ParseTolerantInt("2000(+1000)", 0))
	assert.Equal(t, -2, ParseTolerantInt("-2", 0))

	assert.Equal(t, 0, ParseTolerantInt("-", 0))
	assert.Equal(t, 0, ParseTolerantInt("なし", 0))
	assert.Equal(t, 0, ParseTolerantInt("NaN", 0))
	assert.Equal(t, 0, ParseTolerantInt("n/a", 0))
	assert.Equal(t, 7, ParseTolerantInt("", 7))
	assert.Equal(t, 7, ParseTolerantInt("unknown", 7))
}

func TestParseTraits(t *testing.T) {
	assert.Equal(t, []string{"五老星", "天竜人"}, ParseTraits("五老星/天竜人"))
	assert.Equal(t, []string{"五老星", "天竜人"}, ParseTraits(" 五老星 / 天竜人 "))
	assert.Equal(t, []string{"天竜人"}, ParseTraits("天竜人"))
	assert.Nil(t, ParseTraits(""))
	assert.Nil(t, ParseTraits("  "))
}
