package output

import (
	"encoding/json"
	"io"

	v1 "github.com/OriD-19/fpsmeter/api/v1"
)

// JsonOutput writes one JSON document per record. Without Pretty each record
// is a single line, so a stream of periods reads as JSON lines.
type JsonOutput struct {
	Pretty bool
}

func (p *JsonOutput) OutputParam(par v1.Parameter, w io.Writer) error {
	var (
		data []byte
		err  error
	)
	if p.Pretty {
		data, err = json.MarshalIndent(par, "", "    ")
	} else {
		data, err = json.Marshal(par)
	}
	if err != nil {
		return err
	}
	data = append(data, '\n')
	_, err = w.Write(data)
	return err
}
