package cli

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/spf13/cobra"

	"github.com/adamwoolhether/netmanager/client"
)

// jsonBody keeps the decoded response as raw JSON so --select can run
// against it and the body prints unchanged.
type jsonBody = json.RawMessage

type asyncWrite func(ctx context.Context, c *client.Client, path string, body any) <-chan client.Result[jsonBody]

func newGetCmd() *cobra.Command {
	var query, selectPath string

	cmd := &cobra.Command{
		Use:   "get PATH [PATH...]",
		Short: "Send GET requests, concurrently when given several paths",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := setup(cmd)
			if err != nil {
				return err
			}

			chans := make([]<-chan client.Result[jsonBody], len(args))
			for i, path := range args {
				chans[i] = client.GetAsync[jsonBody](cmd.Context(), e.client, path, query)
			}

			var errs []error
			for i, ch := range chans {
				res := <-ch
				if len(args) > 1 {
					e.printer.heading(e.client.BuildURL(args[i], query))
				}
				if err := e.report(res, selectPath); err != nil {
					errs = append(errs, err)
				}
			}

			if err := e.client.Wait(); err != nil {
				e.logger.Debug("async requests finished with errors", "error", err)
			}

			return errors.Join(errs...)
		},
	}

	cmd.Flags().StringVarP(&query, "query", "q", "", "Query string appended to every path")
	cmd.Flags().StringVarP(&selectPath, "select", "s", "", "Print only this gjson path from a JSON response")

	return cmd
}

func newWriteCmd(name, short string, send asyncWrite) *cobra.Command {
	var data, selectPath string

	cmd := &cobra.Command{
		Use:   name + " PATH",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := setup(cmd)
			if err != nil {
				return err
			}

			var body any
			if data != "" {
				body = data
			}

			return e.report(<-send(cmd.Context(), e.client, args[0], body), selectPath)
		},
	}

	cmd.Flags().StringVarP(&data, "data", "d", "", "Request body, sent verbatim")
	cmd.Flags().StringVarP(&selectPath, "select", "s", "", "Print only this gjson path from a JSON response")

	return cmd
}

// report prints res and returns the error the command should exit with.
// A body that is not JSON is printed as is and is not a failure.
func (e *env) report(res client.Result[jsonBody], selectPath string) error {
	if errors.Is(res.Err, client.ErrTransport) {
		e.printer.failure(res.Err)
		return res.Err
	}

	e.printer.status(res.StatusCode, res.Status)

	var decErr *client.DecodeError
	if errors.As(res.Err, &decErr) {
		e.logger.Debug("response is not JSON", "status", res.StatusCode)
	}

	if err := e.printer.body(res.Body, selectPath); err != nil {
		e.printer.failure(err)
		return err
	}

	if errors.Is(res.Err, client.ErrStatus) {
		return res.Err
	}

	return nil
}
