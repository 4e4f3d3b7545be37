package world_test

import (
	"math/rand"
	"slices"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/pworld/internal/contact"
	"github.com/san-kum/pworld/internal/effect"
	"github.com/san-kum/pworld/internal/force"
	"github.com/san-kum/pworld/internal/particle"
	"github.com/san-kum/pworld/internal/vecmath"
	"github.com/san-kum/pworld/internal/world"
)

var _ = Describe("World", func() {
	var (
		w   *world.World
		rng *rand.Rand
	)

	BeforeEach(func() {
		var err error
		w, err = world.New(32, 0, world.WithCollectGap(2))
		Expect(err).NotTo(HaveOccurred())
		rng = rand.New(rand.NewSource(7))

		gravity := force.NewGravity(vecmath.New(0, -9.81, 0))
		for i := 0; i < 12; i++ {
			p := particle.New(vecmath.New(float64(i), rng.Float64()*4-1, 0), 1+rng.Float64())
			p.Velocity = vecmath.New(0, rng.Float64()*2-1, 0)
			w.Particles().Add(p)
			w.ForceRegistry().Add(p, gravity)
		}
		*w.ContactGenerators() = append(*w.ContactGenerators(), contact.NewGround(w.Particles()))
	})

	Describe("StartFrame", func() {
		It("leaves every live accumulator at zero", func() {
			e := effect.Burst("sparks", effect.BurstConfig{Count: 5, Speed: 2, Mass: 0.1}, rng)
			w.AddParticleEffect(e)

			for frame := 0; frame < 20; frame++ {
				w.ForceRegistry().UpdateForces(0.01)
				w.StartFrame()
				for _, p := range *w.Particles() {
					Expect(p.Force()).To(Equal(vecmath.Zero))
				}
				for _, p := range e.Particles() {
					Expect(p.Force()).To(Equal(vecmath.Zero))
				}
				w.RunPhysics(0.01)
			}
		})

		It("keeps only live effects in order once the gap is exceeded", func() {
			var live []*effect.Effect
			for i := 0; i < 6; i++ {
				e := effect.New("e", 0, *particle.New(vecmath.Zero, 1))
				if i%2 == 1 {
					e.MarkDestroyable()
				} else {
					live = append(live, e)
				}
				w.AddParticleEffect(e)
			}

			w.StartFrame()

			Expect(w.Effects()).To(Equal(live))
			Expect(w.Stats().Swept).To(Equal(3))
		})

		It("tolerates destroyable effects up to the gap", func() {
			for i := 0; i < 2; i++ {
				e := effect.New("e", 0)
				e.MarkDestroyable()
				w.AddParticleEffect(e)
			}

			w.StartFrame()

			Expect(w.Effects()).To(HaveLen(2))
			Expect(w.Stats().Swept).To(BeZero())
		})
	})

	Describe("GenerateContacts", func() {
		It("stays within the budget and emits well-formed contacts", func() {
			for frame := 0; frame < 50; frame++ {
				w.StartFrame()
				w.RunPhysics(0.02)

				n := w.GenerateContacts()
				Expect(n).To(BeNumerically(">=", 0))
				Expect(n).To(BeNumerically("<=", w.MaxContacts()))
				Expect(w.Contacts()).To(HaveLen(n))
				for _, c := range w.Contacts() {
					Expect(c.Normal.Magnitude()).To(BeNumerically("~", 1, 1e-12))
					Expect(c.Penetration).To(BeNumerically(">", 0))
					Expect(c.Restitution).To(Equal(contact.GroundRestitution))
					Expect(c.Particles[1]).To(BeNil())
				}
			}
		})

		It("is a pure re-scan", func() {
			w.Particles().Add(particle.New(vecmath.New(20, -0.5, 0), 1))

			first := w.GenerateContacts()
			Expect(first).To(BeNumerically(">", 0))
			snapshot := slices.Clone(w.Contacts())

			Expect(w.GenerateContacts()).To(Equal(first))
			Expect(w.Contacts()).To(Equal(snapshot))
		})
	})

	Describe("RunPhysics", func() {
		It("sets the auto budget to twice the contact count", func() {
			for frame := 0; frame < 30; frame++ {
				w.StartFrame()
				w.RunPhysics(0.02)
				if s := w.Stats(); s.Contacts > 0 {
					Expect(s.Iterations).To(Equal(2 * s.Contacts))
					r, ok := w.Resolver().(*contact.Resolver)
					Expect(ok).To(BeTrue())
					Expect(r.Iterations()).To(Equal(2 * s.Contacts))
				}
			}
		})

		It("keeps particles from sinking through the ground", func() {
			for frame := 0; frame < 200; frame++ {
				w.StartFrame()
				w.RunPhysics(0.01)
			}
			for _, p := range *w.Particles() {
				Expect(p.Position.Y).To(BeNumerically(">", -0.05))
			}
		})
	})
})
