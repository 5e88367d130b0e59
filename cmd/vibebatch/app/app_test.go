// SPDX-FileCopyrightText: 2026 Vibelab contributors
//
// SPDX-License-Identifier: Apache-2.0

package app

import (
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/vibelab/vibebatch/pkg/config"
)

var _ = Describe("app", func() {
	Describe("#watchTargets", func() {
		It("should include every nested directory of a configured path", func() {
			dir := GinkgoT().TempDir()
			nested := filepath.Join(dir, "sub", "subsub")
			Expect(os.MkdirAll(nested, 0700)).To(Succeed())
			Expect(os.WriteFile(filepath.Join(dir, "a.vbr"), []byte("x"), 0600)).To(Succeed())

			targets, err := watchTargets([]string{dir})

			Expect(err).To(Not(HaveOccurred()))
			Expect(targets).To(ConsistOf(dir, filepath.Join(dir, "sub"), nested))
		})

		It("should keep plain files and drop duplicates", func() {
			dir := GinkgoT().TempDir()
			file := filepath.Join(dir, "a.vbr")
			Expect(os.WriteFile(file, []byte("x"), 0600)).To(Succeed())

			targets, err := watchTargets([]string{file, file, dir})

			Expect(err).To(Not(HaveOccurred()))
			Expect(targets).To(ConsistOf(file, dir))
		})

		It("should fail for missing paths", func() {
			dir := GinkgoT().TempDir()

			_, err := watchTargets([]string{filepath.Join(dir, "missing")})

			Expect(err).To(HaveOccurred())
		})
	})

	Describe("#sourcePaths", func() {
		It("should collect the paths of every configured source", func() {
			c := &config.BatchConfig{
				Sources: []config.SourceConfig{
					{ID: "local", Args: map[string]any{"paths": []string{"/data/a", "/data/b"}}},
					{ID: "local-2", Args: map[string]any{"paths": []string{"/data/c"}}},
				},
			}

			paths, err := sourcePaths(c)

			Expect(err).To(Not(HaveOccurred()))
			Expect(paths).To(Equal([]string{"/data/a", "/data/b", "/data/c"}))
		})
	})
})
