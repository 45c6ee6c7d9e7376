//go:build js && wasm

package main

import (
	"encoding/json"
	"syscall/js"

	"github.com/igs/igs/internal/document"
	"github.com/igs/igs/internal/engine"
)

const defaultSize = 500

var eng *engine.Engine

func main() {
	var err error
	eng, err = newEngine(defaultSize, defaultSize)
	if err != nil {
		panic(err)
	}

	// Create the engine API object
	igsEngine := js.Global().Get("Object").New()

	// --- Commands (frontend → engine) ---
	igsEngine.Set("init", js.FuncOf(initEngine))
	igsEngine.Set("loadShapes", js.FuncOf(loadShapes))
	igsEngine.Set("loadSampleScene", js.FuncOf(loadSampleScene))
	igsEngine.Set("addShape", js.FuncOf(addShape))
	igsEngine.Set("removeShape", js.FuncOf(removeShape))
	igsEngine.Set("renameShape", js.FuncOf(renameShape))
	igsEngine.Set("transformShapes", js.FuncOf(transformShapes))
	igsEngine.Set("setSelection", js.FuncOf(setSelection))
	igsEngine.Set("move", js.FuncOf(move))
	igsEngine.Set("zoomIn", js.FuncOf(zoomIn))
	igsEngine.Set("zoomOut", js.FuncOf(zoomOut))
	igsEngine.Set("handleKey", js.FuncOf(handleKey))
	igsEngine.Set("handleWheel", js.FuncOf(handleWheel))

	// --- Queries (frontend ← engine) ---
	igsEngine.Set("render", js.FuncOf(render))
	igsEngine.Set("getScene", js.FuncOf(getScene))
	igsEngine.Set("getSelection", js.FuncOf(getSelection))
	igsEngine.Set("getRevision", js.FuncOf(getRevision))
	igsEngine.Set("getKinds", js.FuncOf(getKinds))

	// Register on global scope
	js.Global().Set("igsEngine", igsEngine)

	// Signal that WASM is ready
	js.Global().Set("igsWasmReady", js.ValueOf(true))

	// Keep Go runtime alive
	select {}
}

func newEngine(width, height int) (*engine.Engine, error) {
	return engine.NewEngine(engine.Options{
		Width:      width,
		Height:     height,
		Margin:     engine.DefaultMargin,
		CenterMark: true,
	})
}

func errorResult(err error) interface{} {
	return js.ValueOf(map[string]interface{}{"error": err.Error()})
}

func okResult() interface{} {
	return js.ValueOf(map[string]interface{}{"ok": true})
}

func missing(what string) interface{} {
	return js.ValueOf(map[string]interface{}{"error": "missing " + what})
}

// --- Command Handlers ---

func initEngine(this js.Value, args []js.Value) interface{} {
	if len(args) < 2 {
		return missing("width and height")
	}
	e, err := newEngine(args[0].Int(), args[1].Int())
	if err != nil {
		return errorResult(err)
	}
	eng = e
	return okResult()
}

func loadShapes(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return missing("shapes JSON")
	}
	var specs []document.ShapeSpec
	if err := json.Unmarshal([]byte(args[0].String()), &specs); err != nil {
		return errorResult(err)
	}
	if err := eng.LoadShapes(specs); err != nil {
		return errorResult(err)
	}
	return okResult()
}

func loadSampleScene(this js.Value, args []js.Value) interface{} {
	if err := eng.LoadShapes(document.NewSampleScene()); err != nil {
		return errorResult(err)
	}
	return okResult()
}

func addShape(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return missing("shape JSON")
	}
	var spec document.ShapeSpec
	if err := json.Unmarshal([]byte(args[0].String()), &spec); err != nil {
		return errorResult(err)
	}
	index, err := eng.AddShape(spec)
	if err != nil {
		return errorResult(err)
	}
	return js.ValueOf(map[string]interface{}{"ok": true, "index": index})
}

func removeShape(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return missing("index")
	}
	if err := eng.RemoveShape(args[0].Int()); err != nil {
		return errorResult(err)
	}
	return okResult()
}

func renameShape(this js.Value, args []js.Value) interface{} {
	if len(args) < 2 {
		return missing("index and name")
	}
	if err := eng.RenameShape(args[0].Int(), args[1].String()); err != nil {
		return errorResult(err)
	}
	return okResult()
}

// transformShapes takes a JSON array of steps and, optionally, a JSON
// array of indices. Without indices the current selection is transformed.
// The result lists the applied matrices as JSON.
func transformShapes(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return missing("steps JSON")
	}
	var steps []document.TransformStep
	if err := json.Unmarshal([]byte(args[0].String()), &steps); err != nil {
		return errorResult(err)
	}

	var indices []int
	if len(args) > 1 && args[1].Type() == js.TypeString {
		if err := json.Unmarshal([]byte(args[1].String()), &indices); err != nil {
			return errorResult(err)
		}
	}

	applied, err := eng.TransformShapes(indices, steps)
	if err != nil {
		return errorResult(err)
	}
	data, _ := json.Marshal(applied)
	return js.ValueOf(map[string]interface{}{"ok": true, "transforms": string(data)})
}

func setSelection(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 || args[0].Type() != js.TypeObject {
		eng.SetSelection(nil)
		return okResult()
	}

	arr := args[0]
	length := arr.Length()
	indices := make([]int, length)
	for i := 0; i < length; i++ {
		indices[i] = arr.Index(i).Int()
	}
	if err := eng.SetSelection(indices); err != nil {
		return errorResult(err)
	}
	return okResult()
}

func move(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return missing("direction")
	}
	d, err := engine.ParseDirection(args[0].String())
	if err != nil {
		return errorResult(err)
	}
	eng.Move(d)
	return okResult()
}

func zoomIn(this js.Value, args []js.Value) interface{} {
	return js.ValueOf(eng.ZoomIn())
}

func zoomOut(this js.Value, args []js.Value) interface{} {
	eng.ZoomOut()
	return nil
}

func handleKey(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return nil
	}
	k, err := engine.ParseKey(args[0].String())
	if err != nil {
		// Keys other than arrows are not ours.
		return nil
	}
	eng.HandleKey(k)
	return nil
}

func handleWheel(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return nil
	}
	eng.HandleWheel(args[0].Int())
	return nil
}

// --- Query Handlers ---

func render(this js.Value, args []js.Value) interface{} {
	return js.ValueOf(eng.RenderJSON())
}

func getScene(this js.Value, args []js.Value) interface{} {
	data, err := json.Marshal(eng.Scene())
	if err != nil {
		return js.ValueOf("{}")
	}
	return js.ValueOf(string(data))
}

func getSelection(this js.Value, args []js.Value) interface{} {
	data, _ := json.Marshal(eng.Selection())
	return js.ValueOf(string(data))
}

func getRevision(this js.Value, args []js.Value) interface{} {
	return js.ValueOf(float64(eng.Revision()))
}

func getKinds(this js.Value, args []js.Value) interface{} {
	kinds := eng.Registry().Kinds()
	out := make([]interface{}, len(kinds))
	for i, k := range kinds {
		out[i] = string(k)
	}
	return js.ValueOf(out)
}
