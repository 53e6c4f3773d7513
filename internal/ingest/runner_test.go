package ingest

import (
	"context"
	"errors"
	"os/exec"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/joseph-ayodele/ryness-reports/internal/common"
)

type fakeRunner struct {
	stdout, stderr []byte
	err            error
	block          bool

	name string
	args []string
}

func (f *fakeRunner) Run(ctx context.Context, name string, args ...string) ([]byte, []byte, error) {
	f.name, f.args = name, args
	if f.block {
		<-ctx.Done()
		return nil, nil, errors.New("signal: killed")
	}
	return f.stdout, f.stderr, f.err
}

func TestSubprocessIngesterSuccess(t *testing.T) {
	r := &fakeRunner{stdout: []byte(`{"path":"w/a.pdf","ingest_id":"x","report_id":7,"pages":5,"rows":120,"duration":1500000}` + "\n")}
	s := NewSubprocessIngester(r, "/usr/bin/ryness-ingest", "-json", "-db", "r.db")

	res, err := s.IngestFile(context.Background(), "w/a.pdf")
	if err != nil {
		t.Fatalf("IngestFile: %v", err)
	}
	if res.ReportID != 7 || res.Rows != 120 || res.Pages != 5 || res.Duration != 1500*time.Microsecond {
		t.Errorf("decoded result = %+v", res)
	}
	if r.name != "/usr/bin/ryness-ingest" {
		t.Errorf("command = %q", r.name)
	}
	if diff := cmp.Diff([]string{"-json", "-db", "r.db", "w/a.pdf"}, r.args); diff != "" {
		t.Errorf("args mismatch (-want +got):\n%s", diff)
	}
}

func TestSubprocessIngesterChildFailure(t *testing.T) {
	r := &fakeRunner{
		stderr: []byte("{\"level\":\"ERROR\"}\nDOCUMENT_UNREADABLE: cannot read w/b.pdf\n\n"),
		err:    &exec.ExitError{},
	}
	s := NewSubprocessIngester(r, "ryness-ingest")

	_, err := s.IngestFile(context.Background(), "w/b.pdf")
	var ce *ChildError
	if !errors.As(err, &ce) {
		t.Fatalf("error = %v, want *ChildError", err)
	}
	if ce.Error() != "DOCUMENT_UNREADABLE: cannot read w/b.pdf" {
		t.Errorf("detail = %q", ce.Error())
	}
	if common.IsTimeout(err) {
		t.Error("child failure reported as timeout")
	}
}

func TestSubprocessIngesterDeadline(t *testing.T) {
	s := NewSubprocessIngester(&fakeRunner{block: true}, "ryness-ingest")
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := s.IngestFile(ctx, "w/slow.pdf")
	if !common.IsTimeout(err) {
		t.Fatalf("error = %v, want a timeout", err)
	}
}

func TestSubprocessIngesterBadOutput(t *testing.T) {
	s := NewSubprocessIngester(&fakeRunner{stdout: []byte("not json")}, "ryness-ingest")
	if _, err := s.IngestFile(context.Background(), "w/a.pdf"); err == nil {
		t.Fatal("expected decode error")
	}
}

func TestLastLine(t *testing.T) {
	if got := lastLine([]byte("one\ntwo  \n \n")); got != "two" {
		t.Errorf("lastLine = %q", got)
	}
	if got := lastLine(nil); got != "" {
		t.Errorf("lastLine(nil) = %q", got)
	}
}
