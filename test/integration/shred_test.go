//go:build integration

package integration

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"runtime"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/zap"

	"secureshred/internal/config"
	"secureshred/internal/reporting"
	"secureshred/internal/system"
	"secureshred/internal/wipe"
)

func listDir(dir string) []string {
	entries, err := os.ReadDir(dir)
	Expect(err).NotTo(HaveOccurred())

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}

var _ = Describe("Shred Engine", func() {
	var (
		tmpDir string
		engine *wipe.Engine
	)

	BeforeEach(func() {
		var err error
		tmpDir, err = os.MkdirTemp("", "secureshred-integration-*")
		Expect(err).NotTo(HaveOccurred())

		engine = wipe.NewEngine(wipe.EngineConfigFrom(config.Default()), zap.NewNop())
	})

	AfterEach(func() {
		os.Chmod(tmpDir, 0700)
		os.RemoveAll(tmpDir)
	})

	Describe("Shred", func() {
		Context("when shredding a 10 MiB file with dod and verification", func() {
			It("should destroy the file and every intermediate name", func() {
				path := filepath.Join(tmpDir, "payroll.xlsx")
				Expect(os.WriteFile(path, bytes.Repeat([]byte{0x5A}, 10*1024*1024), 0600)).To(Succeed())

				var last int
				res := engine.Shred(context.Background(), path, wipe.MethodDoD, true, func(pct int) {
					Expect(pct).To(BeNumerically(">=", last))
					last = pct
				})

				Expect(res.Success).To(BeTrue(), res.Detail)
				Expect(res.Passes).To(Equal(3))
				Expect(res.Verified).NotTo(BeNil())
				Expect(res.Verified.FileExists).To(BeFalse())
				Expect(res.Verified.Recoverable).To(BeFalse())
				Expect(last).To(Equal(100))

				_, err := os.Stat(path)
				Expect(os.IsNotExist(err)).To(BeTrue())
				Expect(listDir(tmpDir)).To(BeEmpty())
			})
		})

		Context("when every method is used", func() {
			DescribeTable("should perform the fixed number of passes",
				func(method wipe.Method, passes int) {
					path := filepath.Join(tmpDir, "f.bin")
					Expect(os.WriteFile(path, bytes.Repeat([]byte("x"), 70*1024), 0600)).To(Succeed())

					res := engine.Shred(context.Background(), path, method, true, nil)
					Expect(res.Success).To(BeTrue(), res.Detail)
					Expect(res.Passes).To(Equal(passes))
					Expect(listDir(tmpDir)).To(BeEmpty())
				},
				Entry("dod", wipe.MethodDoD, 3),
				Entry("gutmann", wipe.MethodGutmann, 35),
				Entry("random_7", wipe.MethodRandom7, 7),
				Entry("simple", wipe.MethodSimple, 1),
			)
		})

		Context("when the path does not exist", func() {
			It("should fail with not_found and touch nothing", func() {
				Expect(os.WriteFile(filepath.Join(tmpDir, "other"), []byte("o"), 0600)).To(Succeed())

				for i := 0; i < 3; i++ {
					res := engine.Shred(context.Background(), filepath.Join(tmpDir, "ghost"), wipe.MethodDoD, true, nil)
					Expect(res.Success).To(BeFalse())
					Expect(res.Error).To(Equal(wipe.KindNotFound))
				}
				Expect(listDir(tmpDir)).To(ConsistOf("other"))
			})
		})

		Context("when the directory is read-only", func() {
			BeforeEach(func() {
				if runtime.GOOS == "windows" || os.Geteuid() == 0 {
					Skip("directory permissions are not enforced for this user")
				}
			})

			It("should fail with permission_denied and keep the file", func() {
				path := filepath.Join(tmpDir, "locked.txt")
				content := bytes.Repeat([]byte("L"), 4096)
				Expect(os.WriteFile(path, content, 0600)).To(Succeed())
				Expect(os.Chmod(tmpDir, 0500)).To(Succeed())

				res := engine.Shred(context.Background(), path, wipe.MethodDoD, true, nil)
				Expect(res.Success).To(BeFalse())
				Expect(res.Error).To(Equal(wipe.KindPermissionDenied))

				Expect(listDir(tmpDir)).To(ConsistOf("locked.txt"))
				data, err := os.ReadFile(path)
				Expect(err).NotTo(HaveOccurred())
				Expect(data).To(Equal(content))
			})
		})
	})

	Describe("ShredBatch", func() {
		It("should keep going after a failure and produce a failing report", func() {
			a := filepath.Join(tmpDir, "a")
			b := filepath.Join(tmpDir, "b")
			Expect(os.WriteFile(a, []byte("aaaa"), 0600)).To(Succeed())
			Expect(os.WriteFile(b, []byte("bbbb"), 0600)).To(Succeed())

			results := engine.ShredBatch(context.Background(), []string{a, filepath.Join(tmpDir, "missing"), b}, wipe.MethodSimple, true, nil)
			Expect(results).To(HaveLen(3))
			Expect(results[0].Success).To(BeTrue())
			Expect(results[1].Error).To(Equal(wipe.KindNotFound))
			Expect(results[2].Success).To(BeTrue())

			report := reporting.NewReport("shred", config.Default(), time.Now())
			report.AddResults(results)
			report.Finalize(time.Now())
			Expect(report.Summary.Succeeded).To(Equal(2))
			Expect(report.Summary.Failed).To(Equal(1))
			Expect(report.ExitCode).To(Equal(1))
			Expect(listDir(tmpDir)).To(BeEmpty())
		})
	})
})

var _ = Describe("Free Space Saturator", func() {
	var tmpDir string

	BeforeEach(func() {
		var err error
		tmpDir, err = os.MkdirTemp("", "secureshred-freespace-*")
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		os.RemoveAll(tmpDir)
	})

	It("should never write into the safety margin", func() {
		const toWrite = 8 * 1024 * 1024
		const chunk = 1024 * 1024

		free, err := system.FreeBytes(tmpDir)
		Expect(err).NotTo(HaveOccurred())
		if free < 2*toWrite {
			Skip("not enough free space for the saturation check")
		}

		// a margin just below the current free space keeps the fill small
		margin := free - toWrite
		saturator := wipe.NewSaturator(wipe.SaturatorConfig{
			ChunkSize: chunk,
			Margin:    margin,
		}, zap.NewNop())

		lowest := free
		res := saturator.ShredFreeSpace(context.Background(), tmpDir, wipe.MethodDoD, func(int) {
			if now, err := system.FreeBytes(tmpDir); err == nil && now < lowest {
				lowest = now
			}
		})

		Expect(res.Success).To(BeTrue(), res.Detail)
		Expect(res.BytesWritten).To(BeNumerically("==", toWrite))
		Expect(res.Method).To(Equal(wipe.MethodDoD))
		Expect(lowest + chunk).To(BeNumerically(">=", margin))
		Expect(listDir(tmpDir)).To(BeEmpty())

		after, err := system.FreeBytes(tmpDir)
		Expect(err).NotTo(HaveOccurred())
		Expect(after + chunk).To(BeNumerically(">=", margin))
	})

	It("should refuse to run without headroom above the margin", func() {
		saturator := wipe.NewSaturator(wipe.SaturatorConfig{
			Margin: 1 << 62,
		}, zap.NewNop())

		res := saturator.ShredFreeSpace(context.Background(), tmpDir, wipe.MethodSimple, nil)
		Expect(res.Success).To(BeFalse())
		Expect(res.Error).To(Equal(wipe.KindInsufficientSpace))
		Expect(listDir(tmpDir)).To(BeEmpty())
	})
})
