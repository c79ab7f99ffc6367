package arena_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/boxsim/internal/arena"
)

func mustArena(grid float64, opts ...arena.Option) *arena.Arena {
	a, err := arena.New(grid, opts...)
	Expect(err).NotTo(HaveOccurred())
	return a
}

func restored(bodies ...arena.Body) *arena.Arena {
	a := mustArena(arena.DefaultGridSize, arena.WithSeed(1))
	Expect(a.Restore(arena.Snapshot{GridSize: arena.DefaultGridSize, Bodies: bodies})).To(Succeed())
	return a
}

func speeds(s arena.Snapshot) []float64 {
	out := []float64{}
	for _, b := range s.Mobile() {
		out = append(out, b.Speed())
	}
	return out
}

var _ = Describe("Arena", func() {
	Describe("fixed population", func() {
		DescribeTable("holds 4 walls, 1 center block and 2 mobile blocks",
			func(grid float64) {
				a := mustArena(grid, arena.WithSeed(7))
				a.Initialize()
				s := a.Snapshot()

				Expect(s.Bodies).To(HaveLen(7))
				Expect(s.Count(arena.Wall)).To(Equal(4))
				Expect(s.Count(arena.CenterBlock)).To(Equal(1))
				Expect(s.Count(arena.RedBlock)).To(Equal(1))
				Expect(s.Count(arena.BlueBlock)).To(Equal(1))

				for _, b := range s.Bodies {
					Expect(b.Static).To(Equal(b.Kind == arena.Wall || b.Kind == arena.CenterBlock))
				}
				for _, b := range s.Mobile() {
					Expect(b.Speed()).To(BeNumerically("~", 1, 1e-12))
				}
				Expect(s.Tick).To(Equal(0))
			},
			Entry("tiny grid", 101.0),
			Entry("small grid", 400.0),
			Entry("default grid", arena.DefaultGridSize),
			Entry("large grid", 4096.0),
		)
	})

	Describe("long runs", func() {
		const ticks = 5000
		var a *arena.Arena

		BeforeEach(func() {
			a = mustArena(arena.DefaultGridSize, arena.WithSeed(20240601))
			a.Initialize()
		})

		It("conserves the speed of every mobile body", func() {
			for i := 0; i < ticks; i++ {
				before := speeds(a.Snapshot())
				a.Step()
				after := speeds(a.Snapshot())
				for k := range before {
					Expect(after[k]).To(BeNumerically("~", before[k], 1e-9))
				}
			}
		})

		It("keeps mobile bodies inside the arena", func() {
			g := a.GridSize()
			for i := 0; i < ticks; i++ {
				a.Step()
				for _, b := range a.Snapshot().Mobile() {
					half := float64(b.HalfSize())
					Expect(b.Position.X).To(BeNumerically(">=", half))
					Expect(b.Position.X).To(BeNumerically("<=", g-half))
					Expect(b.Position.Y).To(BeNumerically(">=", half))
					Expect(b.Position.Y).To(BeNumerically("<=", g-half))
				}
			}
		})

		It("never moves static bodies", func() {
			initial := a.Snapshot().Bodies[:5]
			for i := 0; i < ticks; i++ {
				a.Step()
			}
			Expect(a.Snapshot().Bodies[:5]).To(Equal(initial))
			Expect(a.Tick()).To(Equal(ticks))
		})
	})

	Describe("determinism", func() {
		It("reproduces identical state from fixed headings", func() {
			run := func() arena.Snapshot {
				a := mustArena(arena.DefaultGridSize, arena.WithHeadings(0.3, 2.1))
				a.Initialize()
				for i := 0; i < 2000; i++ {
					a.Step()
				}
				return a.Snapshot()
			}

			first, second := run(), run()
			Expect(second).To(Equal(first))
			Expect(second.Fingerprint()).To(Equal(first.Fingerprint()))
		})

		It("reproduces identical state from the same seed across restarts", func() {
			a := mustArena(arena.DefaultGridSize, arena.WithSeed(99))
			b := mustArena(arena.DefaultGridSize, arena.WithSeed(99))
			for round := 0; round < 3; round++ {
				a.Initialize()
				b.Initialize()
				for i := 0; i < 300; i++ {
					a.Step()
					b.Step()
				}
				Expect(a.Snapshot().Fingerprint()).To(Equal(b.Snapshot().Fingerprint()))
			}
		})
	})

	Describe("mobile body against a static wall", func() {
		var a *arena.Arena

		BeforeEach(func() {
			a = restored(
				arena.Body{Kind: arena.Wall, Position: arena.Vector{X: 10, Y: 500}, Size: arena.WallThickness, Static: true},
				arena.Body{Kind: arena.RedBlock, Position: arena.Vector{X: 50, Y: 500}, Velocity: arena.Vector{X: -1}, Size: arena.MobileBlockSize},
			)
		})

		It("flips the approach velocity and nudges the body clear", func() {
			for i := 0; i < 14; i++ {
				a.Step()
				Expect(a.Contacts()).To(BeZero())
			}

			a.Step()
			red := a.Snapshot().Bodies[1]
			Expect(a.Contacts()).To(Equal(1))
			Expect(red.Velocity).To(Equal(arena.Vector{X: 1, Y: 0}))
			Expect(red.Position).To(Equal(arena.Vector{X: 37, Y: 500}))

			for i := 0; i < 10; i++ {
				a.Step()
				Expect(a.Contacts()).To(BeZero())
			}
			Expect(a.Snapshot().Bodies[1].Position.X).To(Equal(47.0))
		})
	})

	Describe("two mobile bodies on a collision course", func() {
		It("reflects both bodies and pushes them apart within one step", func() {
			a := restored(
				arena.Body{Kind: arena.RedBlock, Position: arena.Vector{X: 495, Y: 500}, Velocity: arena.Vector{X: 1}, Size: arena.MobileBlockSize},
				arena.Body{Kind: arena.BlueBlock, Position: arena.Vector{X: 505, Y: 500}, Velocity: arena.Vector{X: -1}, Size: arena.MobileBlockSize},
			)

			a.Step()
			s := a.Snapshot()
			red, blue := s.Bodies[0], s.Bodies[1]

			Expect(a.Contacts()).To(Equal(2))
			Expect(blue.Position.X - red.Position.X).To(BeNumerically(">", 10))
			Expect(red.Speed()).To(BeNumerically("~", 1, 1e-12))
			Expect(blue.Speed()).To(BeNumerically("~", 1, 1e-12))
		})

		It("drifts apart over subsequent ticks until the boxes clear", func() {
			a := restored(
				arena.Body{Kind: arena.RedBlock, Position: arena.Vector{X: 495, Y: 500}, Velocity: arena.Vector{X: 1}, Size: arena.MobileBlockSize},
				arena.Body{Kind: arena.BlueBlock, Position: arena.Vector{X: 505, Y: 500}, Velocity: arena.Vector{X: -1}, Size: arena.MobileBlockSize},
			)

			cleared := false
			for i := 0; i < 10 && !cleared; i++ {
				a.Step()
				s := a.Snapshot()
				cleared = !s.Bodies[0].Overlaps(s.Bodies[1])
			}
			Expect(cleared).To(BeTrue())
		})
	})

	Describe("restore", func() {
		It("resumes from a snapshot with the same trajectory", func() {
			a := mustArena(arena.DefaultGridSize, arena.WithHeadings(math.Pi/5, 4))
			a.Initialize()
			for i := 0; i < 500; i++ {
				a.Step()
			}
			mid := a.Snapshot()
			for i := 0; i < 500; i++ {
				a.Step()
			}

			b := mustArena(arena.DefaultGridSize)
			Expect(b.Restore(mid)).To(Succeed())
			for i := 0; i < 500; i++ {
				b.Step()
			}
			Expect(b.Snapshot().Fingerprint()).To(Equal(a.Snapshot().Fingerprint()))
			Expect(b.Tick()).To(Equal(1000))
		})
	})
})
