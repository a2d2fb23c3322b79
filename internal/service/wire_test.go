package service

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLooseNumbersCoercion(t *testing.T) {
	cases := []struct {
		name     string
		payload  string
		wantQty  int
		wantUnit float64
	}{
		{"numbers", `{"quantite":2,"prix_unitaire":10.5}`, 2, 10.5},
		{"numeric strings", `{"quantite":"3","prix_unitaire":"7.25"}`, 3, 7.25},
		{"null", `{"quantite":null,"prix_unitaire":null}`, 0, 0},
		{"junk", `{"quantite":"beaucoup","prix_unitaire":"cher"}`, 0, 0},
		{"absent", `{}`, 0, 0},
		{"booleans", `{"quantite":true,"prix_unitaire":false}`, 0, 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var item PlacedItem
			require.NoError(t, json.Unmarshal([]byte(tc.payload), &item))
			assert.Equal(t, tc.wantQty, int(item.Quantite))
			assert.Equal(t, tc.wantUnit, float64(item.PrixUnitaire))
		})
	}
}

func TestSplitSideItems(t *testing.T) {
	cases := []struct {
		in   string
		want []string
	}{
		{"", []string{}},
		{"   ", []string{}},
		{"frites", []string{"frites"}},
		{"frites,salade", []string{"frites", "salade"}},
		{" frites , salade verte ", []string{"frites", "salade verte"}},
		{"frites,,salade", []string{"frites", "", "salade"}},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, splitSideItems(tc.in), "input %q", tc.in)
	}
}
