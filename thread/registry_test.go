package thread

import (
	"github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = ginkgo.Describe("Registry", func() {
	var r *Registry

	ginkgo.BeforeEach(func() {
		r = NewRegistry()
	})

	ginkgo.It("should create go threads for registered plugins", func() {
		r.Register("builtin/echo", func(env *Env) int { return 0 })

		t := r.Factory("builtin/echo").NewThread(4, nil)

		Expect(t).To(BeAssignableToTypeOf(&GoThread{}))
		Expect(t.ID()).To(Equal(4))
	})

	ginkgo.It("should create exec threads for other paths", func() {
		t := r.Factory("/usr/bin/true").NewThread(0, nil)

		Expect(t).To(BeAssignableToTypeOf(&ExecThread{}))
	})

	ginkgo.It("should refuse duplicate registration", func() {
		r.Register("a", func(env *Env) int { return 0 })

		Expect(func() {
			r.Register("a", func(env *Env) int { return 0 })
		}).To(Panic())
	})

	ginkgo.It("should list the registered paths", func() {
		r.Register("b", func(env *Env) int { return 0 })
		r.Register("a", func(env *Env) int { return 0 })

		Expect(r.Paths()).To(Equal([]string{"a", "b"}))
	})
})
