/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"fmt"
	"math/rand/v2"
)

type DareCategory struct {
	ID   string `json:"id"`
	Name string `json:"name"`

	dares []string
}

var dareCategories = []DareCategory{
	{
		ID:   "funny",
		Name: "Funny",
		dares: []string{
			"Talk like a pirate for the next five minutes.",
			"Do your best impression of a famous cartoon character.",
			"Tell a joke so bad it makes everyone groan.",
			"Speak only in questions until your next turn.",
			"Make up a song about the last thing you ate.",
		},
	},
	{
		ID:   "physical",
		Name: "Physical",
		dares: []string{
			"Do ten jumping jacks.",
			"Hold a plank for thirty seconds.",
			"Balance on one foot for a full minute.",
			"Do your best robot dance for twenty seconds.",
			"Touch your toes ten times without bending your knees.",
		},
	},
	{
		ID:   "social",
		Name: "Social",
		dares: []string{
			"Send a compliment to the third contact in your phone.",
			"Change your profile picture to something silly for an hour.",
			"Post your most recent photo without a caption.",
			"Text a friend a random emoji and refuse to explain it.",
			"Call someone and sing them happy birthday, whatever the date.",
		},
	},
	{
		ID:   "creative",
		Name: "Creative",
		dares: []string{
			"Draw a self-portrait with your eyes closed.",
			"Write a four-line poem about your opponent.",
			"Invent a new handshake and teach it to someone.",
			"Describe your day as a movie trailer.",
			"Build a tiny sculpture out of whatever is on your desk.",
		},
	},
}

func findDareCategory(id string) (DareCategory, bool) {
	for _, c := range dareCategories {
		if c.ID == id {
			return c, true
		}
	}
	return DareCategory{}, false
}

// RandomDare picks uniformly from the dares in a category.
func RandomDare(category string) (string, error) {
	c, ok := findDareCategory(category)
	if !ok || len(c.dares) == 0 {
		return "", fmt.Errorf("%w: %q", ErrUnknownCategory, category)
	}

	return c.dares[rand.IntN(len(c.dares))], nil
}
