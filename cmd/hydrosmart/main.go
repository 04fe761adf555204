package main

import (
	"context"
	"fmt"
	"os"

	"github.com/hydrosmart/reporter/cmd/hydrosmart/cmds"
	"github.com/hydrosmart/reporter/internal/clierrors"
	"github.com/hydrosmart/reporter/internal/logger"
	"github.com/hydrosmart/reporter/internal/types"
)

func runApp(ctx context.Context) int {
	err := cmds.Execute(ctx)
	if err != nil {
		code := clierrors.Code(err)
		// outcomes of a submission were already reported by the command
		if code == types.ExitErrored {
			logger.Logger.Error("error executing command", "error", err)
			fmt.Fprintln(os.Stderr, "Error: "+err.Error())
		}
		return code
	}

	return types.ExitNormal
}

func main() {
	logger.InitSlog()

	ctx := context.Background()

	os.Exit(runApp(ctx))
}
