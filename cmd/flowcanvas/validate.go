package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/BaSui01/flowcanvas/flow"
	"github.com/BaSui01/flowcanvas/types"
)

// =============================================================================
// ✅ validate 命令
// =============================================================================

// runValidate 校验一份流文档文件：JSON Schema + 引用完整性。
// 校验通过打印节点/边统计并以 0 退出，失败打印原因并以 1 退出。
func runValidate(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: flowcanvas validate <file>")
		os.Exit(1)
	}

	path := args[0]
	data, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to read %s: %v\n", path, err)
		os.Exit(1)
	}

	doc, err := flow.Decode(data)
	if err != nil {
		var typed *types.Error
		if errors.As(err, &typed) {
			fmt.Fprintf(os.Stderr, "Invalid: [%s] %s\n", typed.Code, typed.Message)
			if typed.Cause != nil {
				fmt.Fprintf(os.Stderr, "  %v\n", typed.Cause)
			}
		} else {
			fmt.Fprintf(os.Stderr, "Invalid: %v\n", err)
		}
		os.Exit(1)
	}

	mode := "sync"
	if doc.IsAsync {
		mode = "async"
	}
	fmt.Printf("Valid: %s (%d nodes, %d edges, %s ordering)\n", path, len(doc.Nodes), len(doc.Edges), mode)
}
