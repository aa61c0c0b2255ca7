// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Derelict Contributors

//go:build integration

package engine_test

import (
	"context"
	"time"

	"github.com/oklog/ulid/v2"
	. "github.com/onsi/ginkgo/v2" //nolint:revive // ginkgo convention
	. "github.com/onsi/gomega"    //nolint:revive // gomega convention

	"github.com/derelict-game/derelict/internal/engine"
	"github.com/derelict-game/derelict/internal/engine/enginetest"
	"github.com/derelict-game/derelict/internal/player"
)

func bodies(frags []player.Fragment) []string {
	out := make([]string, len(frags))
	for i, f := range frags {
		out[i] = f.Body
	}
	return out
}

var _ = Describe("Secondary Control Room playthrough", func() {
	var (
		eng      *engine.Engine
		players  *enginetest.Players
		playerID ulid.ULID
		ctx      context.Context
		cancel   context.CancelFunc
	)

	BeforeEach(func() {
		ctx, cancel = context.WithTimeout(context.Background(), 5*time.Second)
		players = enginetest.NewPlayers()
		playerID = ulid.Make()
		Expect(players.Create(ctx, &player.Player{
			ID:       playerID,
			Nickname: "guest",
			RoomID:   "secondary-control-room",
		})).To(Succeed())
		eng = engine.New(enginetest.ControlRoom(), players, enginetest.Tx{})
	})

	AfterEach(func() {
		cancel()
	})

	run := func(input string) []player.Fragment {
		GinkgoHelper()
		frags, err := eng.Execute(ctx, playerID, input)
		Expect(err).NotTo(HaveOccurred())
		return frags
	}

	Describe("the locked door", func() {
		It("refuses until the keycard is found, then opens into the hallway", func() {
			By("refusing without the keycard")
			frags := run("open door")
			Expect(bodies(frags)).To(Equal([]string{"You are unable to open the door yet."}))

			p, err := players.Get(ctx, playerID)
			Expect(err).NotTo(HaveOccurred())
			Expect(p.RoomID).To(Equal("secondary-control-room"))

			inv, err := players.Inventory(ctx, playerID)
			Expect(err).NotTo(HaveOccurred())
			Expect(inv).To(BeEmpty())

			By("finding the keycard in the crates")
			frags = run("inspect crates")
			Expect(bodies(frags)).To(ContainElement("+1: maintenance keycard"))

			By("opening the door with the keycard in hand")
			frags = run("open door")
			Expect(bodies(frags)).To(Equal([]string{
				"You swipe the maintenance keycard.",
				"The lock cycles green.",
				"The door grinds open and you step through.",
				"A narrow maintenance hallway stretches into darkness. Cables hang from an open panel.",
				"You see: pipes.",
			}))

			p, err = players.Get(ctx, playerID)
			Expect(err).NotTo(HaveOccurred())
			Expect(p.RoomID).To(Equal("maintenance-hallway"))
		})

		It("accepts the synonym phrase and an instrument clause", func() {
			run("inspect supply crates")
			frags := run("open bulkhead door with keycard")
			Expect(bodies(frags)).To(ContainElement("The lock cycles green."))
		})
	})

	Describe("the switches", func() {
		It("activates the story flag once and collapses on repeat", func() {
			frags := run("inspect switches")
			Expect(bodies(frags)).To(Equal([]string{
				"You trace the circuit and flip the breakers in sequence. Consoles hum back to life.",
				"STORY FLAG ACTIVATED: Power Rerouted",
			}))

			frags = run("inspect switches")
			Expect(bodies(frags)).To(Equal([]string{
				"The switches are already set the way you left them.",
			}))
		})
	})

	Describe("object resolution scope", func() {
		It("only resolves phrases against the current room", func() {
			frags := run("inspect pipes")
			Expect(bodies(frags)[0]).To(Equal("You don't see that here."))

			run("inspect crates")
			run("open door")

			frags = run("inspect pipes")
			Expect(bodies(frags)).To(Equal([]string{"Corroded coolant pipes run along the ceiling."}))
		})
	})

	Describe("the narrative log", func() {
		It("accumulates every response in order and clears wholesale", func() {
			run("inspect switches")
			run("open door")

			entries, err := players.Log(ctx, playerID)
			Expect(err).NotTo(HaveOccurred())
			Expect(entries).To(HaveLen(3))
			Expect(entries[0].Body).To(HavePrefix("You trace the circuit"))
			Expect(entries[2].Body).To(Equal("You are unable to open the door yet."))
			for i := 1; i < len(entries); i++ {
				Expect(entries[i].Seq).To(BeNumerically(">", entries[i-1].Seq))
			}

			frags := run("clear")
			Expect(frags).To(BeEmpty())

			entries, err = players.Log(ctx, playerID)
			Expect(err).NotTo(HaveOccurred())
			Expect(entries).To(BeEmpty())
		})
	})

	Describe("inventory", func() {
		It("reflects grants and stays idempotent", func() {
			frags := run("inventory")
			Expect(bodies(frags)).To(Equal([]string{"Your inventory is empty."}))

			run("inspect crates")
			run("inspect crates")

			frags = run("inventory")
			Expect(bodies(frags)).To(Equal([]string{"You are carrying: maintenance keycard."}))
		})
	})
})
