package ttficon

import (
	"fmt"
	"image"
	"image/color"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/esimov/ttficon/utils"
	"github.com/pkg/errors"
	"golang.org/x/term"
)

// maxWorkers sets the maximum number of concurrently running workers.
const maxWorkers = 20

// icoSizes are the extra resolutions stored next to the requested one in ICO files.
var icoSizes = []float64{16, 32, 48}

// Ops holds the options of a command line run.
type Ops struct {
	Font     string // font file path, URL or family name known by the DefaultRegistry
	Style    string
	Chars    string
	Src      string // source image; when provided a bitmap icon is derived instead of a glyph
	Dst      string
	PipeName string
	Format   string
	Color    color.Color
	Size     float64
	Workers  int

	// Stderr receives the status messages. Defaults to os.Stderr.
	Stderr io.Writer
}

// exit terminates the process after an interrupt.
var exit = os.Exit

// result holds the relevant information about the rendering process and the generated icon.
type result struct {
	path string
	err  error
}

// Execute renders the icons described by the options.
// A single character is written to Dst, which can be the pipe name too.
// Multiple characters are rendered concurrently into the Dst directory, one file per character.
func (op *Ops) Execute(r *Rasterizer) error {
	if op.Stderr == nil {
		op.Stderr = os.Stderr
	}
	if r == nil {
		r = DefaultRasterizer
	}
	now := time.Now()

	var err error
	switch runes := []rune(op.Chars); {
	case op.Src != "":
		err = op.bitmap()
	case len(runes) == 0:
		return errors.New("please provide at least one character to render")
	case len(runes) == 1 && !isDir(op.Dst):
		err = op.single(r, runes[0])
	default:
		err = op.batch(r, uniqueRunes(runes))
	}
	if err != nil {
		return err
	}

	if op.Dst != op.PipeName {
		fmt.Fprintf(op.Stderr, "\nExecution time: %s\n",
			utils.DecorateText(utils.FormatTime(time.Since(now)), utils.SuccessMessage),
		)
	}
	return nil
}

// single renders one glyph into the destination file.
func (op *Ops) single(r *Rasterizer, ch rune) error {
	font, err := op.resolveFont()
	if err != nil {
		return err
	}
	icon, err := r.NewIcon(font, ch, op.Color, op.size())
	if err != nil {
		return err
	}

	err = op.write(icon, op.Dst, op.format(op.Dst))
	op.printOpStatus(op.Dst, err)

	return err
}

// bitmap recolors and resizes the source image.
func (op *Ops) bitmap() error {
	src := op.Src
	if utils.IsValidUrl(src) {
		f, err := utils.DownloadFile(src)
		if err != nil {
			return err
		}
		f.Close()
		defer os.Remove(f.Name())
		src = f.Name()
	}

	img, err := DecodeImage(src)
	if err != nil {
		return err
	}

	var icon Icon = NewBitmapIcon(img)
	if op.Color != nil {
		if icon, err = icon.DeriveColor(op.Color); err != nil {
			return err
		}
	}
	if op.Size > 0 {
		if icon, err = icon.DeriveSize(op.Size); err != nil {
			return err
		}
	}

	err = op.write(icon, op.Dst, op.format(op.Dst))
	op.printOpStatus(op.Dst, err)

	return err
}

// batch renders every rune into the destination directory by a pool of workers.
func (op *Ops) batch(r *Rasterizer, runes []rune) error {
	if op.Dst == op.PipeName {
		return errors.New("multiple characters can be rendered only into a directory")
	}
	if err := os.MkdirAll(op.Dst, 0755); err != nil {
		return errors.Wrapf(err, "unable to create the destination directory")
	}

	font, err := op.resolveFont()
	if err != nil {
		return err
	}

	// Limit the concurrently running workers to maxWorkers.
	workers := op.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	workers = utils.Clamp(workers, 1, utils.Min(maxWorkers, len(runes)))

	var spinner *utils.Spinner
	if f, ok := op.Stderr.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		spinner = utils.NewSpinner(fmt.Sprintf("%s %s",
			utils.DecorateText("⚡ TTFICON", utils.StatusMessage),
			utils.DecorateText(fmt.Sprintf("⇢ rendering %d glyphs...", len(runes)), utils.DefaultMessage),
		), time.Millisecond*80, true)
		spinner.Start()
	}

	done := make(chan struct{})
	defer close(done)

	pending := newPendingFiles()

	// Capture CTRL-C signal, restore the cursor visibility back and remove the unfinished files.
	signalChan := make(chan os.Signal, 1)
	signal.Notify(signalChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(signalChan)
	go func() {
		select {
		case <-signalChan:
			interrupt(spinner, pending)
			exit(1)
		case <-done:
		}
	}()

	chars := produce(done, runes)
	ch := make(chan result)

	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			op.consumer(r, font, ch, done, chars, pending)
		}()
	}

	// Close the channel after the values are consumed.
	go func() {
		defer close(ch)
		wg.Wait()
	}()

	var (
		results []result
		failed  int
	)
	for res := range ch {
		if res.err != nil {
			failed++
		}
		results = append(results, res)
	}
	if spinner != nil {
		spinner.Stop()
	}
	for _, res := range results {
		op.printOpStatus(res.path, res.err)
	}

	if failed > 0 {
		return errors.Errorf("%d of %d glyphs could not be rendered", failed, len(runes))
	}
	return nil
}

// produce starts a new goroutine which sends the runes to be rendered on the returned channel.
// It finishes when all the runes are sent or the done channel is getting closed.
func produce(done <-chan struct{}, runes []rune) <-chan rune {
	out := make(chan rune)

	go func() {
		defer close(out)
		for _, r := range runes {
			select {
			case <-done:
				return
			case out <- r:
			}
		}
	}()
	return out
}

// consumer reads the runes from the chars channel and renders each of them into its own file.
func (op *Ops) consumer(
	r *Rasterizer,
	font *Font,
	res chan<- result,
	done <-chan struct{},
	chars <-chan rune,
	pending *pendingFiles,
) {
	format := op.format("")

	for c := range chars {
		dst := filepath.Join(op.Dst, fmt.Sprintf("u%04X.%s", c, format))

		icon, err := r.NewIcon(font, c, op.Color, op.size())
		if err == nil {
			pending.add(dst)
			err = op.write(icon, dst, format)
			pending.remove(dst)
		}

		select {
		case <-done:
			return
		case res <- result{
			path: dst,
			err:  err,
		}:
		}
	}
}

// resolveFont loads the font from a local path or a URL, otherwise it looks it up by family name.
func (op *Ops) resolveFont() (*Font, error) {
	name := op.Font
	if name == "" {
		name = "Go"
	}

	if utils.IsValidUrl(name) {
		f, err := utils.DownloadFile(name)
		if err != nil {
			return nil, err
		}
		f.Close()
		defer os.Remove(f.Name())

		return LoadFont(f.Name())
	}

	if fi, err := os.Stat(name); err == nil && fi.Mode().IsRegular() {
		return LoadFont(name)
	}
	return DefaultRegistry().Lookup(name, op.Style)
}

// write encodes the icon into the out file or to the standard output in case of the pipe name.
// ICO files get the icon at a few smaller sizes too.
func (op *Ops) write(icon Icon, out, format string) (err error) {
	w, err := op.openDst(out)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := w.Close(); cerr != nil && err == nil {
			err = cerr
		}
		// remove the generated file in case of an error
		if err != nil && out != op.PipeName {
			os.Remove(out)
		}
	}()

	if format != ICO {
		return Encode(w, icon.Image(), format)
	}

	imgs := []image.Image{icon.Image()}
	for _, size := range icoSizes {
		if size >= icon.Size() {
			continue
		}
		derived, err := icon.DeriveSize(size)
		if err != nil {
			return err
		}
		imgs = append(imgs, derived.Image())
	}
	return EncodeICO(w, imgs...)
}

// openDst opens the destination file, or the standard output in case of the pipe name.
func (op *Ops) openDst(out string) (io.WriteCloser, error) {
	if out == op.PipeName {
		if term.IsTerminal(int(os.Stdout.Fd())) {
			return nil, errors.New("`-` should be used with a pipe for stdout")
		}
		return nopCloser{os.Stdout}, nil
	}

	dst, err := os.Create(out)
	if err != nil {
		return nil, errors.Wrap(err, "unable to create the destination file")
	}
	return dst, nil
}

// printOpStatus displays the relevant information about the rendering process.
func (op *Ops) printOpStatus(fname string, err error) {
	if err != nil {
		fmt.Fprintf(op.Stderr, "%s %s\n",
			utils.DecorateText("Error rendering the icon:", utils.ErrorMessage),
			utils.DecorateText(fmt.Sprintf("%s (%v)", filepath.Base(fname), err), utils.DefaultMessage),
		)
		return
	}
	if fname != op.PipeName {
		fmt.Fprintf(op.Stderr, "The icon has been saved as: %s\n",
			utils.DecorateText(filepath.Base(fname), utils.SuccessMessage),
		)
	}
}

func (op *Ops) size() float64 {
	if op.Size == 0 {
		return DefaultSize
	}
	return op.Size
}

// format returns the lower-cased output format, taken from the options or from the out file extension.
func (op *Ops) format(out string) string {
	if op.Format != "" {
		return strings.ToLower(op.Format)
	}
	return FormatFromPath(out)
}

// uniqueRunes drops the repeated runes, keeping the order of their first occurrence.
func uniqueRunes(runes []rune) []rune {
	seen := make(map[rune]struct{}, len(runes))
	unique := make([]rune, 0, len(runes))
	for _, r := range runes {
		if _, ok := seen[r]; ok {
			continue
		}
		seen[r] = struct{}{}
		unique = append(unique, r)
	}
	return unique
}

// pendingFiles tracks the files being written by the workers.
type pendingFiles struct {
	mu    sync.Mutex
	paths map[string]struct{}
}

func newPendingFiles() *pendingFiles {
	return &pendingFiles{paths: make(map[string]struct{})}
}

func (p *pendingFiles) add(path string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.paths[path] = struct{}{}
}

func (p *pendingFiles) remove(path string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	delete(p.paths, path)
}

// removeAll deletes the unfinished files from the disk.
func (p *pendingFiles) removeAll() {
	p.mu.Lock()
	defer p.mu.Unlock()

	for path := range p.paths {
		os.Remove(path)
		delete(p.paths, path)
	}
}

// interrupt cleans up after a cancelled batch: the cursor hidden by the spinner
// is made visible again and the partially written files are removed.
func interrupt(spinner *utils.Spinner, pending *pendingFiles) {
	if spinner != nil {
		spinner.RestoreCursor()
	}
	pending.removeAll()
}

func isDir(path string) bool {
	fi, err := os.Stat(path)
	return err == nil && fi.IsDir()
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }
