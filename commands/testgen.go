package commands

import (
	"encoding/json"
	"io/ioutil"
	"os"
	"path/filepath"

	"github.com/gogo/protobuf/proto"
)

// Example is one object dumped by testgen, in both encodings. The
// filename carries no path and no extension.
type Example struct {
	Filename string
	Obj      proto.Message
}

// TestGenCmd writes the example objects as .json and .bin files, so
// client implementations in other languages can verify their codecs
// against the exact wire format of this node. Output goes to
// "testdata" unless another directory is given.
func TestGenCmd(examples []Example, args []string) error {
	outdir := "testdata"
	if len(args) > 0 {
		outdir = args[0]
	}
	if err := os.MkdirAll(outdir, 0755); err != nil {
		return err
	}

	for _, ex := range examples {
		if err := writeExample(outdir, ex); err != nil {
			return err
		}
	}
	return nil
}

func writeExample(outdir string, ex Example) error {
	js, err := json.Marshal(ex.Obj)
	if err != nil {
		return err
	}
	jsFile := filepath.Join(outdir, ex.Filename+".json")
	if err := ioutil.WriteFile(jsFile, js, 0644); err != nil {
		return err
	}

	pb, err := proto.Marshal(ex.Obj)
	if err != nil {
		return err
	}
	pbFile := filepath.Join(outdir, ex.Filename+".bin")
	return ioutil.WriteFile(pbFile, pb, 0644)
}
