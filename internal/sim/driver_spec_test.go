package sim_test

import (
	"context"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/dropsim/internal/rigid"
	"github.com/san-kum/dropsim/internal/sim"
)

var _ = Describe("Driver", func() {
	var (
		cfg    sim.Config
		driver *sim.Driver
	)

	BeforeEach(func() {
		cfg = sim.DefaultConfig()
	})

	JustBeforeEach(func() {
		var err error
		driver, err = sim.New(cfg)
		Expect(err).NotTo(HaveOccurred())
		DeferCleanup(driver.Close)
	})

	Describe("free fall", func() {
		It("follows y0 - g*t^2/2 until the first contact", func() {
			g := math.Abs(cfg.Gravity)
			for n := 1; n <= 1200; n++ {
				s, err := driver.Step()
				Expect(err).NotTo(HaveOccurred())
				Expect(s.Contacts).To(BeZero())

				t := float64(n) * cfg.Dt
				exact := cfg.StartHeight - 0.5*g*t*t
				Expect(s.Height()).To(BeNumerically("~", exact, 0.5*g*cfg.Dt*t+1e-9))
			}
		})
	})

	Describe("ground contact", func() {
		BeforeEach(func() {
			cfg.StartHeight = 3
		})

		It("reverses the vertical velocity without gaining speed", func() {
			var impact float64
			touching := false
			for i := 0; i < 5000; i++ {
				vy := driver.Ball().LinearVel().Y()
				s, err := driver.Step()
				Expect(err).NotTo(HaveOccurred())

				if s.Contacts > 0 && !touching {
					touching = true
					impact = vy
					Expect(impact).To(BeNumerically("<", 0))
				}
				if touching && s.Contacts == 0 {
					Expect(s.Velocity.Y()).To(BeNumerically(">", 0))
					Expect(s.Velocity.Y()).To(BeNumerically("<=", math.Abs(impact)))
					return
				}
			}
			Fail("sphere never left the ground")
		})

		It("keeps the sphere above the plane", func() {
			for i := 0; i < 3000; i++ {
				s, err := driver.Step()
				Expect(err).NotTo(HaveOccurred())
				Expect(s.Height()).To(BeNumerically(">", 0))
			}
		})

		It("empties the contact group after every step", func() {
			for i := 0; i < 3000; i++ {
				s, err := driver.Step()
				Expect(err).NotTo(HaveOccurred())
				Expect(s.Pending).To(BeZero())
				Expect(driver.ContactGroupLen()).To(BeZero())
			}
		})
	})

	Describe("headless loop", func() {
		BeforeEach(func() {
			cfg.Duration = 1
			cfg.OutputStep = 0.1
		})

		It("ends within one step past the duration", func() {
			result, err := driver.Run(context.Background(), nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(driver.Time()).To(BeNumerically(">=", cfg.Duration))
			Expect(driver.Time()).To(BeNumerically("<", cfg.Duration+cfg.Dt+1e-9))
			Expect(result.Times).To(HaveLen(11))
			Expect(result.Times[10]).To(BeNumerically("~", 1.0, 1e-9))
		})
	})

	Describe("interactive loop", func() {
		BeforeEach(func() {
			cfg = sim.InteractiveConfig()
		})

		It("polls the stop signal before each step", func() {
			polls, frames := 0, 0
			err := driver.RunUntil(context.Background(), func() bool {
				polls++
				return polls > 10
			}, func(sim.Sample) { frames++ })
			Expect(err).NotTo(HaveOccurred())
			Expect(polls).To(Equal(11))
			Expect(frames).To(Equal(10))
		})
	})

	Describe("shutdown", func() {
		It("moves to the shutdown phase once", func() {
			Expect(driver.Phase()).To(Equal(sim.PhaseStepping))
			driver.Close()
			Expect(driver.Phase()).To(Equal(sim.PhaseShutdown))
			Expect(driver.Close).NotTo(Panic())
			_, err := driver.Step()
			Expect(err).To(MatchError(sim.ErrClosed))
		})
	})
})

var _ = Describe("CollisionData", func() {
	It("creates one joint per contact point with the shared surface", func() {
		world := rigid.NewWorld()
		space := rigid.NewSimpleSpace()
		group := rigid.NewJointGroup()
		DeferCleanup(func() {
			group.Destroy()
			space.Destroy()
			world.Destroy()
		})

		body := world.NewBody()
		ball := space.NewSphere(0.3)
		ball.SetBody(body)
		body.SetPosition(mgl64.Vec3{0, 0.1, 0})
		space.NewPlane(0, 1, 0, 0)

		data := &sim.CollisionData{
			World:       world,
			Contacts:    group,
			MaxContacts: 8,
			Surface:     sim.DefaultSurface(),
		}
		space.Collide(data.HandleCollision)

		Expect(group.Len()).To(Equal(1))
		joints := world.Joints()
		Expect(joints).To(HaveLen(1))
		Expect(joints[0].Contact().Surface).To(Equal(sim.DefaultSurface()))
		b1, b2 := joints[0].Bodies()
		Expect(b1).To(BeIdenticalTo(body))
		Expect(b2).To(BeNil())
	})
})
