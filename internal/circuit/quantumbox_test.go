package circuit

import (
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestQuantumBox(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "QuantumBox Suite")
}

var _ = Describe("QuantumBox", func() {
	var box *QuantumBox

	BeforeEach(func() {
		box = NewBox()
	})

	It("starts at p=0.5, t=-0.5 with a normalized field", func() {
		Expect(box.P).To(Equal(0.5))
		Expect(box.T).To(Equal(-0.5))
		Expect(box.Stopped).To(BeFalse())
	})

	Describe("probability field", func() {
		It("keeps every cell in [0, 1] with the hottest cell at 1", func() {
			for step := 0; step < 50; step++ {
				box.Step(0.1, true, false)
				if box.Stopped {
					break
				}
				max := 0.0
				for i := range box.Field {
					for j := range box.Field[i] {
						v := box.Field[i][j]
						Expect(v).To(BeNumerically(">=", 0))
						Expect(v).To(BeNumerically("<=", 1))
						if v > max {
							max = v
						}
					}
				}
				Expect(max).To(BeNumerically("~", 1.0, 1e-12))
			}
		})
	})

	Describe("coordinate advance", func() {
		It("moves t by dt/2 every tick regardless of gates", func() {
			box.Step(0.1, false, false)
			Expect(box.T).To(BeNumerically("~", -0.45, 1e-12))
			Expect(box.P).To(Equal(0.5))
		})

		It("applies both gates additively in the same tick", func() {
			box.Step(0.1, true, true)
			Expect(box.P).To(BeNumerically("~", 0.5, 1e-12))
		})

		It("clamps only the lower bound", func() {
			box.P = -0.99
			for i := 0; i < 5; i++ {
				box.Step(0.1, false, true)
			}
			Expect(box.P).To(Equal(-1.0))
		})
	})

	Describe("resets", func() {
		It("wraps p to 0.5 and reports the pre-reset value", func() {
			box.P = 0.98
			ev := box.Step(0.1, true, false)
			Expect(ev).NotTo(BeNil())
			Expect(ev.PReset).To(BeTrue())
			Expect(ev.TReset).To(BeFalse())
			Expect(ev.OldP).To(BeNumerically("~", 1.03, 1e-12))
			Expect(box.P).To(Equal(0.5))
			Expect(box.PResetCount).To(Equal(1))
		})

		It("wraps t to -0.5 when it crosses 1", func() {
			box.T = 0.96
			ev := box.Step(0.1, false, false)
			Expect(ev).NotTo(BeNil())
			Expect(ev.TReset).To(BeTrue())
			Expect(ev.OldT).To(BeNumerically("~", 1.01, 1e-12))
			Expect(box.T).To(Equal(-0.5))
		})

		It("counts a coincident double reset once", func() {
			box.P = 1.04
			box.T = 0.96
			// p lands at 1.09, outside the final window, so termination
			// cannot fire and both coordinates wrap in the same tick.
			ev := box.Step(0.1, true, false)
			Expect(ev).NotTo(BeNil())
			Expect(ev.PReset && ev.TReset).To(BeTrue())
			Expect(box.ResetCount).To(Equal(1))
			Expect(box.PResetCount).To(Equal(1))
			Expect(box.TResetCount).To(Equal(1))
		})

		It("keeps reset_count between max(p,t) and p+t counts", func() {
			for i := 0; i < 200 && !box.Stopped; i++ {
				box.Step(0.1, i%2 == 0, i%3 == 0)
				lo := box.PResetCount
				if box.TResetCount > lo {
					lo = box.TResetCount
				}
				Expect(box.ResetCount).To(BeNumerically(">=", lo))
				Expect(box.ResetCount).To(BeNumerically("<=", box.PResetCount+box.TResetCount))
			}
		})
	})

	Describe("termination", func() {
		It("snaps both coordinates to exactly 1.0 and stops", func() {
			box.P = 0.92
			box.T = 0.93
			ev := box.Step(0.1, true, false)
			Expect(ev).NotTo(BeNil())
			Expect(ev.Final).To(BeTrue())
			Expect(box.Stopped).To(BeTrue())
			Expect(box.P).To(Equal(1.0))
			Expect(box.T).To(Equal(1.0))
		})

		It("wins over the reset check in the same tick", func() {
			// p steps to exactly >= 1.0 inside the final window while t
			// is also aligned: the machine must stop, not wrap.
			box.P = 0.97
			box.T = 0.93
			ev := box.Step(0.1, true, false)
			Expect(ev.Final).To(BeTrue())
			Expect(box.PResetCount).To(Equal(0))
		})

		It("never mutates the box again once stopped, via the board", func() {
			b := NewBoard()
			sel := b.Add(NewDetermineSelection("Determine Selection"))
			id := b.Add(NewQuantumBox("Quantum Box"))
			b.Connect(id, sel)

			c := b.Component(id)
			c.Box.P = 0.92
			c.Box.T = 0.93
			b.Component(sel).State = Active

			b.Update(id, 0.1, testRand())
			Expect(c.Box.Stopped).To(BeTrue())

			field := c.Box.Field
			for i := 0; i < 10; i++ {
				b.Update(id, 0.1, testRand())
			}
			Expect(c.Box.Stopped).To(BeTrue())
			Expect(c.Box.P).To(Equal(1.0))
			Expect(c.Box.T).To(Equal(1.0))
			Expect(c.Box.Field).To(Equal(field))
			Expect(c.State).To(Equal(Active))
		})
	})
})
