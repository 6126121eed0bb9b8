package main

import (
	"flag"
	"fmt"
	"os"
	"runtime"

	ort "github.com/yalue/onnxruntime_go"

	"wrapsnake/pkg/game"
)

func main() {
	model := flag.String("model", "", "optionally also try loading this policy model")
	flag.Parse()

	fmt.Println("Checking ONNX Runtime...")

	// Same probe order as the policy service
	possiblePaths := []string{
		"/opt/homebrew/opt/onnxruntime/lib/libonnxruntime.dylib", // Apple Silicon Homebrew
		"/usr/local/opt/onnxruntime/lib/libonnxruntime.dylib",    // Intel Homebrew
		"/usr/local/lib/libonnxruntime.dylib",                    // Manual install
	}

	if runtime.GOOS == "linux" {
		possiblePaths = []string{
			"/usr/lib/libonnxruntime.so",
			"/usr/local/lib/libonnxruntime.so",
		}
	}

	var foundPath string
	for _, path := range possiblePaths {
		if _, e := os.Stat(path); e == nil {
			foundPath = path
			fmt.Printf("Found library at: %s\n", path)
			break
		}
	}

	if foundPath == "" {
		fmt.Println("Library path NOT found in listed locations.")
		os.Exit(1)
	}

	// The policy service runs its own environment init, so only do it
	// directly when no model load will follow.
	if *model != "" {
		if err := game.StartPolicyService(*model); err != nil {
			fmt.Printf("FAIL: policy model did not load: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("SUCCESS: ONNX Runtime initialized and policy model loaded from %s.\n", *model)
		return
	}

	ort.SetSharedLibraryPath(foundPath)
	if err := ort.InitializeEnvironment(); err != nil {
		fmt.Printf("FAIL: InitializeEnvironment returned error: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("SUCCESS: ONNX Runtime initialized correctly.")
}
