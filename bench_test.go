package roaring

import (
	"bytes"
	"fmt"
	"math/rand/v2"
	"testing"
	"time"

	ref "github.com/RoaringBitmap/roaring"
)

func BenchmarkOps(b *testing.B) {
	benchAll(b, "set", func(rb *Bitmap, v uint32) {
		rb.Set(v)
	}, func(rb *ref.Bitmap, v uint32) {
		rb.Add(v)
	})
	benchAll(b, "has", func(rb *Bitmap, v uint32) {
		rb.Contains(v)
	}, func(rb *ref.Bitmap, v uint32) {
		rb.Contains(v)
	})
	benchAll(b, "del", func(rb *Bitmap, v uint32) {
		rb.Remove(v)
	}, func(rb *ref.Bitmap, v uint32) {
		rb.Remove(v)
	})
}

func BenchmarkRange(b *testing.B) {
	for _, size := range []int{1000, 1000000} {
		for _, shape := range []fnShape{dataSeq(size, 0), dataRand(size, uint32(size)), dataSparse(size), dataDense(size)} {
			benchRange(b, fmt.Sprintf("rng-%d", size), shape)
		}
	}
}

func BenchmarkMath(b *testing.B) {
	for _, size := range []int{1000, 1000000} {
		for _, shape := range []fnShape{dataSeq(size, 0), dataRand(size, uint32(size)), dataSparse(size), dataDense(size)} {
			benchMath(b, fmt.Sprintf("and-%d", size), shape, And, ref.And)
			benchMath(b, fmt.Sprintf("or-%d", size), shape, Or, ref.Or)
			benchMath(b, fmt.Sprintf("xor-%d", size), shape, Xor, ref.Xor)
			benchMath(b, fmt.Sprintf("andnot-%d", size), shape, AndNot, ref.AndNot)
		}
	}
}

func BenchmarkClone(b *testing.B) {
	data, _ := dataRand(1e6, 1e6)()
	rb, _ := random(data)
	rb.Optimize()

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		clone := rb.Clone(nil)
		_ = clone
	}
}

func BenchmarkAggregate(b *testing.B) {
	ours := make([]*Bitmap, 0, 50)
	theirs := make([]*ref.Bitmap, 0, 50)
	for i := 0; i < 50; i++ {
		data, _ := dataRand(100000, 1<<24)()
		our, other := random(data)
		ours = append(ours, our)
		theirs = append(theirs, other)
	}

	b.Run("fastor", func(b *testing.B) {
		f0 := loopOnce(time.Second, func() { ref.FastOr(theirs...) })

		b.ResetTimer()
		b.ReportAllocs()
		f1 := loopOnce(time.Second, func() { FastOr(ours...) })
		b.ReportMetric(f1, "op/s")
		b.ReportMetric(f1/f0*100, "%")
	})

	b.Run("paror", func(b *testing.B) {
		f0 := loopOnce(time.Second, func() { ref.ParOr(0, theirs...) })

		b.ResetTimer()
		b.ReportAllocs()
		f1 := loopOnce(time.Second, func() { ParOr(0, ours...) })
		b.ReportMetric(f1, "op/s")
		b.ReportMetric(f1/f0*100, "%")
	})

	b.Run("fastand", func(b *testing.B) {
		f0 := loopOnce(time.Second, func() { ref.FastAnd(theirs...) })

		b.ResetTimer()
		b.ReportAllocs()
		f1 := loopOnce(time.Second, func() { FastAnd(ours...) })
		b.ReportMetric(f1, "op/s")
		b.ReportMetric(f1/f0*100, "%")
	})
}

func BenchmarkCodec(b *testing.B) {
	data, _ := dataRand(1e6, 1<<24)()
	our, other := random(data)
	our.Optimize()
	other.RunOptimize()

	encoded := our.ToBytes()
	b.Run("encode", func(b *testing.B) {
		var buf bytes.Buffer
		f0 := loopOnce(time.Second, func() {
			buf.Reset()
			other.WriteTo(&buf)
		})

		b.ResetTimer()
		b.ReportAllocs()
		f1 := loopOnce(time.Second, func() {
			buf.Reset()
			our.WriteTo(&buf)
		})
		b.ReportMetric(f1*float64(len(encoded))/1e6, "MB/s")
		b.ReportMetric(f1/f0*100, "%")
	})

	b.Run("decode", func(b *testing.B) {
		f0 := loopOnce(time.Second, func() {
			ref.New().UnmarshalBinary(encoded)
		})

		b.ResetTimer()
		b.ReportAllocs()
		f1 := loopOnce(time.Second, func() {
			FromBytes(encoded)
		})
		b.ReportMetric(f1*float64(len(encoded))/1e6, "MB/s")
		b.ReportMetric(f1/f0*100, "%")
	})

	b.Run("view", func(b *testing.B) {
		f0 := loopOnce(time.Second, func() {
			ref.New().FromBuffer(encoded)
		})

		b.ResetTimer()
		b.ReportAllocs()
		f1 := loopOnce(time.Second, func() {
			FromBuffer(encoded)
		})
		b.ReportMetric(f1*float64(len(encoded))/1e6, "MB/s")
		b.ReportMetric(f1/f0*100, "%")
	})
}

// ---------------------------------------- Benchmarking ----------------------------------------

// benchRange runs a benchmark for the Range operation
func benchRange(b *testing.B, name string, gen fnShape) {
	data, shape := gen()
	our, other := random(data)

	b.Run(fmt.Sprintf("%s-%s", name, shape), func(b *testing.B) {
		f0 := loopOnce(time.Second, func() {
			other.Iterate(func(uint32) bool { return true })
		})

		b.ResetTimer()
		b.ReportAllocs()
		f1 := loopOnce(time.Second, func() {
			our.Range(func(uint32) {})
		})

		b.ReportMetric(1e9/(f1*float64(our.Count())), "ns/op") // Per element
		b.ReportMetric(f1*float64(our.Count())/1e6, "M/s")     // Elements per second
		b.ReportMetric(f1/f0*100, "%")                         // Speedup
	})
}

func benchAll(b *testing.B, name string, fn func(rb *Bitmap, v uint32), fnRef func(rb *ref.Bitmap, v uint32)) {
	for _, size := range []int{1000, 1000000} {
		for _, shape := range []fnShape{dataSeq(size, 0), dataRand(size, uint32(size)), dataSparse(size), dataDense(size)} {
			bench(b, fmt.Sprintf("%s-%d", name, size), shape, fn, fnRef)
		}
	}
}

// bench runs a benchmark for a given generator and function
func bench(b *testing.B, name string, gen fnShape, fnOur func(rb *Bitmap, v uint32), fnRef func(rb *ref.Bitmap, v uint32)) {
	data, shape := gen()
	our, other := random(data)
	b.Run(fmt.Sprintf("%s-%s", name, shape), func(b *testing.B) {
		f0 := loopFor(time.Second, data, func(v uint32) {
			fnRef(other, v)
		})

		b.ResetTimer()
		b.ReportAllocs()
		f1 := loopFor(time.Second, data, func(v uint32) {
			fnOur(our, v)
		})

		b.ReportMetric(1e9/f1, "ns/op")
		b.ReportMetric(f1/1e6, "M/s")  // Througput
		b.ReportMetric(f1/f0*100, "%") // Speedup
	})
}

// benchMath runs a benchmark for a pure binary operation
func benchMath(b *testing.B, name string, gen fnShape, fn func(a, b *Bitmap) *Bitmap, fnRef func(a, b *ref.Bitmap) *ref.Bitmap) {
	data, shape := gen()
	our1, other1 := random(data)
	our2, other2 := random(data)

	b.Run(fmt.Sprintf("%s-%s", name, shape), func(b *testing.B) {
		f0 := loopOnce(time.Second, func() {
			fnRef(other1, other2)
		})

		b.ResetTimer()
		b.ReportAllocs()
		f1 := loopOnce(time.Second, func() {
			fn(our1, our2)
		})

		b.ReportMetric(f1/1e6, "M/s")  // Operations per second (in millions)
		b.ReportMetric(f1/f0*100, "%") // Speedup ratio
	})
}

func loopFor(interval time.Duration, data []uint32, fn func(v uint32)) float64 {
	start, ops := time.Now(), float64(0)
	for time.Since(start) < interval {
		for _, v := range data {
			fn(v)
			ops++
		}
	}
	return float64(ops) / time.Since(start).Seconds()
}

// loopOnce calls the function repeatedly for the interval and returns calls per second
func loopOnce(interval time.Duration, fn func()) float64 {
	start, ops := time.Now(), float64(0)
	for time.Since(start) < interval {
		fn()
		ops++
	}
	return ops / time.Since(start).Seconds()
}

// ---------------------------------------- Generators ----------------------------------------

// random creates a bitmap with 50% of the values set
func random(data []uint32) (*Bitmap, *ref.Bitmap) {
	out := New()
	other := ref.NewBitmap()
	for _, v := range data {
		if rand.IntN(2) == 0 {
			out.Set(v)
			other.Add(v)
		}
	}
	return out, other
}

type fnShape = func() ([]uint32, string)

// dataSeq creates consecutive integers starting from offset
func dataSeq(size int, offset uint32) fnShape {
	return func() ([]uint32, string) {
		data := make([]uint32, size)
		for i := 0; i < size; i++ {
			data[i] = offset + uint32(i)
		}
		return data, "seq"
	}
}

// dataRand creates random integers within a range
func dataRand(size int, maxVal uint32) fnShape {
	return func() ([]uint32, string) {
		data := make([]uint32, size)
		for i := 0; i < size; i++ {
			data[i] = uint32(rand.IntN(int(maxVal)))
		}
		return data, "rnd"
	}
}

// dataSparse creates sparse integers (large gaps between values)
func dataSparse(size int) fnShape {
	return func() ([]uint32, string) {
		data := make([]uint32, size)
		for i := 0; i < size; i++ {
			data[i] = uint32(i * 1000)
		}
		return data, "sps"
	}
}

// dataDense creates dense integers in a small range
func dataDense(size int) fnShape {
	return func() ([]uint32, string) {
		data := make([]uint32, size)
		for i := 0; i < size; i++ {
			data[i] = uint32(rand.IntN(size / 10))
		}
		return data, "dns"
	}
}
