package main

import (
	"crypto/rand"
	"fmt"
	"os"
	"runtime/pprof"
	"time"

	verkle "github.com/verkle-trie/vtrie"
	"github.com/verkle-trie/vtrie/storage"
)

func main() {
	benchmarkInsertInExisting()
}

func benchmarkInsertInExisting() {
	f, _ := os.Create("cpu.prof")
	g, _ := os.Create("mem.prof")
	_ = pprof.StartCPUProfile(f)
	defer pprof.StopCPUProfile()
	defer func() { _ = pprof.WriteHeapProfile(g) }()

	// Number of existing leaves in tree
	n := 1000000
	// Leaves to be inserted afterwards
	toInsert := 10000
	total := n + toInsert

	keys := make([][]byte, n)
	toInsertKeys := make([][]byte, toInsert)
	var value [32]byte
	copy(value[:], []byte("value"))

	for round := 0; round < 4; round++ {
		for i := 0; i < total; i++ {
			key := make([]byte, 32)
			if _, err := rand.Read(key); err != nil {
				panic(err)
			}
			if i < n {
				keys[i] = key
			} else {
				toInsertKeys[i-n] = key
			}
		}
		fmt.Printf("Generated key set %d\n", round)

		for i := 0; i < 5; i++ {
			trie := verkle.NewDefault(storage.New(storage.NewMemKV()))
			for _, k := range keys {
				if err := trie.Insert(k, value); err != nil {
					panic(err)
				}
			}
			if err := trie.Flush(); err != nil {
				panic(err)
			}
			if _, err := trie.ComputeRoot(); err != nil {
				panic(err)
			}

			start := time.Now()
			for _, k := range toInsertKeys {
				if err := trie.Insert(k, value); err != nil {
					panic(err)
				}
			}
			if err := trie.Flush(); err != nil {
				panic(err)
			}
			if _, err := trie.ComputeRoot(); err != nil {
				panic(err)
			}
			elapsed := time.Since(start)
			fmt.Printf("Took %v to insert and flush %d leaves\n", elapsed, toInsert)
		}
	}
}
