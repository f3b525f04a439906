package main

import (
	"errors"
	"io"

	jsoniter "github.com/json-iterator/go"

	"github.com/AntonStoeckl/library-management-go/library"
)

var errOperationFailed = errors.New("operation failed")

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// printResult writes result as indented JSON and turns a failed result into errOperationFailed.
func printResult(out io.Writer, result library.Result) error {
	encoded, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return err
	}

	if _, err = out.Write(append(encoded, '\n')); err != nil {
		return err
	}

	if !result.Ok {
		return errOperationFailed
	}

	return nil
}

// withPayload shows the stored rows with their generated ids after a successful insert.
func withPayload(result library.Result, stored any) library.Result {
	if result.Ok {
		result.Payload = stored
	}

	return result
}
