package receipt

import (
	"fmt"
	"sync"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Store", func() {
	var store *Store

	BeforeEach(func() {
		store = NewStore()
	})

	Describe("Save", func() {
		When("the receipt is valid", func() {
			var receipt *Receipt

			BeforeEach(func() {
				receipt = testReceipt()
			})

			It("should not return an error", func() {
				Expect(store.Save(receipt)).To(Succeed())
			})

			It("should make the receipt retrievable", func() {
				Expect(store.Save(receipt)).To(Succeed())
				found, ok, err := store.FindByID(receipt.ID)
				Expect(err).NotTo(HaveOccurred())
				Expect(ok).To(BeTrue())
				Expect(found).To(Equal(receipt))
			})
		})

		When("the receipt is nil", func() {
			It("returns an error", func() {
				err := store.Save(nil)
				Expect(err).To(HaveOccurred())
				Expect(err.Error()).To(ContainSubstring("receipt is required"))
			})
		})

		When("the same ID is saved twice", func() {
			It("replaces the stored value, last writer wins", func() {
				first := testReceipt()
				first.Retailer = "Target"
				second := testReceipt()
				second.ID = first.ID
				second.Retailer = "Walmart"

				Expect(store.Save(first)).To(Succeed())
				Expect(store.Save(second)).To(Succeed())

				found, ok, err := store.FindByID(first.ID)
				Expect(err).NotTo(HaveOccurred())
				Expect(ok).To(BeTrue())
				Expect(found.Retailer).To(Equal("Walmart"))
				Expect(store.Count()).To(Equal(1))
			})
		})
	})

	Describe("FindByID", func() {
		When("the id is unknown", func() {
			It("reports absent without an error", func() {
				found, ok, err := store.FindByID("no-such-id")
				Expect(err).NotTo(HaveOccurred())
				Expect(ok).To(BeFalse())
				Expect(found).To(BeNil())
			})
		})

		When("the id is empty", func() {
			It("returns an error", func() {
				_, _, err := store.FindByID("")
				Expect(err).To(HaveOccurred())
				Expect(err.Error()).To(ContainSubstring("receipt id is required"))
			})
		})
	})

	Describe("FindAll", func() {
		BeforeEach(func() {
			first := testReceipt()
			first.ID = "id1"
			second := testReceipt()
			second.ID = "id2"
			Expect(store.Save(first)).To(Succeed())
			Expect(store.Save(second)).To(Succeed())
		})

		It("returns all stored receipts", func() {
			Expect(store.FindAll()).To(HaveLen(2))
		})

		It("returns a snapshot copy, mutations do not affect the store", func() {
			snapshot := store.FindAll()
			delete(snapshot, "id1")
			snapshot["id3"] = testReceipt()

			Expect(store.Count()).To(Equal(2))
			_, ok, err := store.FindByID("id1")
			Expect(err).NotTo(HaveOccurred())
			Expect(ok).To(BeTrue())
		})
	})

	Describe("DeleteByID", func() {
		When("the receipt exists", func() {
			var receipt *Receipt

			BeforeEach(func() {
				receipt = testReceipt()
				Expect(store.Save(receipt)).To(Succeed())
			})

			It("removes the receipt and reports true", func() {
				removed, err := store.DeleteByID(receipt.ID)
				Expect(err).NotTo(HaveOccurred())
				Expect(removed).To(BeTrue())

				_, ok, err := store.FindByID(receipt.ID)
				Expect(err).NotTo(HaveOccurred())
				Expect(ok).To(BeFalse())
			})
		})

		When("the receipt does not exist", func() {
			It("reports false without an error", func() {
				removed, err := store.DeleteByID("no-such-id")
				Expect(err).NotTo(HaveOccurred())
				Expect(removed).To(BeFalse())
			})
		})

		When("the id is empty", func() {
			It("returns an error", func() {
				_, err := store.DeleteByID("")
				Expect(err).To(HaveOccurred())
			})
		})
	})

	Describe("ExistsByID", func() {
		When("the receipt exists", func() {
			var receipt *Receipt

			BeforeEach(func() {
				receipt = testReceipt()
				Expect(store.Save(receipt)).To(Succeed())
			})

			It("reports true", func() {
				Expect(store.ExistsByID(receipt.ID)).To(BeTrue())
			})
		})

		When("the receipt does not exist", func() {
			It("reports false", func() {
				Expect(store.ExistsByID("no-such-id")).To(BeFalse())
			})
		})

		When("the id is empty", func() {
			It("returns an error", func() {
				_, err := store.ExistsByID("")
				Expect(err).To(HaveOccurred())
			})
		})
	})

	Describe("concurrent access", func() {
		It("handles concurrent saves of distinct ids", func() {
			const n = 100

			var wg sync.WaitGroup
			for i := 0; i < n; i++ {
				wg.Add(1)
				go func(i int) {
					defer GinkgoRecover()
					defer wg.Done()

					r := testReceipt()
					r.ID = fmt.Sprintf("receipt-%d", i)
					Expect(store.Save(r)).To(Succeed())
				}(i)
			}
			wg.Wait()

			Expect(store.Count()).To(Equal(n))
		})

		It("handles concurrent mixed reads and writes", func() {
			const n = 50

			seed := testReceipt()
			seed.ID = "seed"
			Expect(store.Save(seed)).To(Succeed())

			var wg sync.WaitGroup
			for i := 0; i < n; i++ {
				wg.Add(3)
				go func(i int) {
					defer GinkgoRecover()
					defer wg.Done()

					r := testReceipt()
					r.ID = fmt.Sprintf("receipt-%d", i)
					Expect(store.Save(r)).To(Succeed())
				}(i)
				go func() {
					defer GinkgoRecover()
					defer wg.Done()

					_, _, err := store.FindByID("seed")
					Expect(err).NotTo(HaveOccurred())
				}()
				go func() {
					defer GinkgoRecover()
					defer wg.Done()

					store.FindAll()
				}()
			}
			wg.Wait()

			Expect(store.Count()).To(Equal(n + 1))
		})
	})
})
