package workers

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/sky-uk/chunks/chunk"
	"github.com/sky-uk/chunks/util/test"
	"github.com/stretchr/testify/mock"
)

func resolve(length int, spec chunk.Spec) chunk.Plan {
	plan, err := chunk.Resolve(length, spec)
	Expect(err).NotTo(HaveOccurred())
	return plan
}

func counterValue(c prometheus.Counter) float64 {
	var metric dto.Metric
	Expect(c.Write(&metric)).To(Succeed())
	return metric.GetCounter().GetValue()
}

func gaugeValue(g prometheus.Gauge) float64 {
	var metric dto.Metric
	Expect(g.Write(&metric)).To(Succeed())
	return metric.GetGauge().GetValue()
}

var _ = Describe("Workers", func() {

	var ctx context.Context

	BeforeEach(func() {
		ctx = context.Background()
	})

	Describe("mapping chunks", func() {

		data := make([]float64, 10000)
		var serial float64
		for i := range data {
			data[i] = float64(i)
			serial += data[i]
		}

		sum := func(_ context.Context, _ int, r chunk.Range) (float64, error) {
			var partial float64
			for idx := range r.Indices() {
				partial += data[idx]
			}
			return partial, nil
		}

		for _, split := range []chunk.Split{chunk.Consecutive, chunk.RoundRobin} {
			split := split

			It("should sum in parallel to the serial result with the "+split.String()+" split", func() {
				plan := resolve(len(data), chunk.Spec{N: 8, Split: split})

				partials, err := Map(ctx, plan, sum)

				Expect(err).NotTo(HaveOccurred())
				Expect(partials).To(HaveLen(8))
				var total float64
				for _, p := range partials {
					total += p
				}
				Expect(total).To(Equal(serial))
			})
		}

		It("should store each result at its chunk position", func() {
			plan := resolve(7, chunk.Spec{N: 3, Split: chunk.RoundRobin})

			starts, err := Map(ctx, plan, func(_ context.Context, _ int, r chunk.Range) (int, error) {
				return r.Start, nil
			})

			Expect(err).NotTo(HaveOccurred())
			Expect(starts).To(Equal([]int{0, 1, 2}))
		})
	})

	Describe("running chunks", func() {

		var processor *test.FakeProcessor

		BeforeEach(func() {
			processor = &test.FakeProcessor{}
		})

		AfterEach(func() {
			processor.AssertExpectations(GinkgoT())
		})

		It("should hand every chunk to exactly one worker", func() {
			plan := resolve(10, chunk.Spec{Size: 3})
			for i, r := range plan.Enumerate() {
				processor.On("Process", mock.Anything, i, r).Return(nil).Once()
			}

			Expect(Run(ctx, plan, processor.Process)).To(Succeed())
			processor.AssertNumberOfCalls(GinkgoT(), "Process", 4)
		})

		It("should not start any chunk if the context is already cancelled", func() {
			cancelled, cancel := context.WithCancel(ctx)
			cancel()

			err := Run(cancelled, resolve(10, chunk.Spec{N: 4}), processor.Process)

			Expect(err).To(Equal(context.Canceled))
			processor.AssertNotCalled(GinkgoT(), "Process", mock.Anything, mock.Anything, mock.Anything)
		})

		It("should process a single empty chunk for an empty plan", func() {
			processor.On("Process", mock.Anything, 0, chunk.Range{Start: 0, Stop: 0, Step: 1}).Return(nil).Once()

			Expect(Run(ctx, resolve(0, chunk.Spec{N: 4}), processor.Process)).To(Succeed())
		})
	})

	Describe("failures", func() {

		boom := errors.New("boom")

		It("should report the failing chunk", func() {
			plan := resolve(12, chunk.Spec{N: 4})

			err := Run(ctx, plan, func(_ context.Context, i int, _ chunk.Range) error {
				if i == 2 {
					return boom
				}
				return nil
			})

			Expect(err).To(HaveOccurred())
			Expect(errors.Is(err, boom)).To(BeTrue())
			failures := Errors(err)
			Expect(failures).To(HaveLen(1))
			Expect(failures[0].Index).To(Equal(2))
			Expect(failures[0].Range).To(Equal(plan.MustChunk(2)))
			Expect(err.Error()).To(ContainSubstring("chunk 2 (6:8): boom"))
		})

		It("should report every failing chunk in chunk order", func() {
			plan := resolve(8, chunk.Spec{N: 4})
			release := make(chan struct{})
			var waiting int32

			err := Run(ctx, plan, func(_ context.Context, i int, _ chunk.Range) error {
				if atomic.AddInt32(&waiting, 1) == 4 {
					close(release)
				}
				<-release
				if i%2 == 1 {
					return boom
				}
				return nil
			})

			indices := []int{}
			for _, failure := range Errors(err) {
				indices = append(indices, failure.Index)
			}
			Expect(indices).To(Equal([]int{1, 3}))
		})

		It("should cancel the context of chunks still running", func() {
			plan := resolve(2, chunk.Spec{N: 2})
			observed := make(chan error, 1)
			started := make(chan struct{})

			err := Run(ctx, plan, func(ctx context.Context, i int, _ chunk.Range) error {
				if i == 0 {
					<-started
					return boom
				}
				close(started)
				select {
				case <-ctx.Done():
					observed <- ctx.Err()
				case <-time.After(5 * time.Second):
					observed <- nil
				}
				return nil
			})

			Expect(errors.Is(err, boom)).To(BeTrue())
			Eventually(observed).Should(Receive(Equal(context.Canceled)))
		})

		It("should turn a panicking chunk into an error", func() {
			err := Run(ctx, resolve(3, chunk.Spec{N: 1}), func(context.Context, int, chunk.Range) error {
				panic("kaboom")
			})

			Expect(err).To(MatchError(ContainSubstring("panic: kaboom")))
		})
	})

	Describe("limits", func() {

		It("should never run more chunks at once than the limit", func() {
			var running, highest int32

			err := Run(ctx, resolve(100, chunk.Spec{Size: 1}), func(context.Context, int, chunk.Range) error {
				now := atomic.AddInt32(&running, 1)
				for {
					seen := atomic.LoadInt32(&highest)
					if now <= seen || atomic.CompareAndSwapInt32(&highest, seen, now) {
						break
					}
				}
				time.Sleep(time.Millisecond)
				atomic.AddInt32(&running, -1)
				return nil
			}, WithLimit(3))

			Expect(err).NotTo(HaveOccurred())
			Expect(atomic.LoadInt32(&highest)).To(BeNumerically("<=", 3))
			Expect(atomic.LoadInt32(&highest)).To(BeNumerically(">=", 1))
		})
	})

	Describe("metrics", func() {

		It("should count started and failed chunks per job", func() {
			Expect(Run(ctx, resolve(9, chunk.Spec{N: 3}), func(context.Context, int, chunk.Range) error {
				return nil
			}, WithJob("metrics-ok"))).To(Succeed())

			Expect(counterValue(chunksStarted.WithLabelValues("metrics-ok"))).To(Equal(3.0))
			Expect(counterValue(chunksFailed.WithLabelValues("metrics-ok"))).To(Equal(0.0))
			Expect(gaugeValue(chunksInFlight.WithLabelValues("metrics-ok"))).To(Equal(0.0))

			Expect(Run(ctx, resolve(9, chunk.Spec{N: 1}), func(context.Context, int, chunk.Range) error {
				return errors.New("failed")
			}, WithJob("metrics-failed"))).NotTo(Succeed())

			Expect(counterValue(chunksStarted.WithLabelValues("metrics-failed"))).To(Equal(1.0))
			Expect(counterValue(chunksFailed.WithLabelValues("metrics-failed"))).To(Equal(1.0))
		})
	})
})
