package outline

import (
	"strings"
	"testing"
)

const rustSource = `
// This is a test comment
pub const TEST_CONST: u32 = 1;
pub static TEST_STATIC: u32 = 2;
const INNER_TEST_CONST: u32 = 3;
static INNER_TEST_STATIC: u32 = 4;
pub(crate) struct TestStruct {
    pub test_field: String,
    inner_test_field: String,
}
impl TestStruct {
    pub fn test_method(&self, a: u32, b: u32) -> u32 {
        a + b
    }
    fn inner_test_method(&self, a: u32, b: u32) -> u32 {
        a + b
    }
}
struct InnerTestStruct {
    pub test_field: String,
    inner_test_field: String,
}
impl InnerTestStruct {
    pub fn test_method(&self, a: u32, b: u32) -> u32 {
        a + b
    }
}
pub enum TestEnum {
    TestEnumField1,
    TestEnumField2,
}
enum InnerTestEnum {
    InnerTestEnumField1,
    InnerTestEnumField2,
}
pub fn test_fn(a: u32, b: u32) -> u32 {
    let inner_var_in_func = 1;
    struct InnerStructInFunc {
        c: u32,
    }
    a + b
}
fn inner_test_fn(a: u32, b: u32) -> u32 {
    a + b
}
`

func TestRust(t *testing.T) {
	got := Outline("rust", rustSource)
	want := "var TEST_CONST:u32;var TEST_STATIC:u32;func test_fn(a: u32, b: u32) -> u32;" +
		"class TestStruct{func test_method(&self, a: u32, b: u32) -> u32;var test_field:String;};"
	if got != want {
		t.Errorf("Outline(rust) = %q, want %q", got, want)
	}
}

func TestGo(t *testing.T) {
	source := `
// This is a test comment
package main

import "fmt"

const TestConst string = "test"
const innerTestConst string = "test"

var TestVar string
var innerTestVar string

type TestStruct struct {
	TestField      string
	innerTestField string
}

func (t *TestStruct) TestMethod(a int, b int) (int, error) {
	var InnerVarInFunc int = 1
	type InnerStructInFunc struct {
		C int
	}
	return a + b, nil
}

func (t *TestStruct) innerTestMethod(a int, b int) (int, error) {
	return a + b, nil
}

type innerTestStruct struct {
	innerTestField string
}

func (t *innerTestStruct) testMethod(a int, b int) (int, error) {
	return a + b, nil
}

func TestFunc(a int, b int) (int, error) {
	return a + b, nil
}

func innerTestFunc(a int, b int) (int, error) {
	return a + b, nil
}
`
	got := Outline("go", source)
	want := "var TestConst:string;var TestVar:string;func TestFunc(a int, b int) -> (int, error);" +
		"class TestStruct{func TestMethod(a int, b int) -> (int, error);var TestField:string;};"
	if got != want {
		t.Errorf("Outline(go) = %q, want %q", got, want)
	}
}

func TestPython(t *testing.T) {
	source := `
# This is a test comment
test_var: str = "test"
class TestClass:
    def __init__(self, a, b):
        self.a = a
        self.b = b
    def test_method(self, a: int, b: int) -> int:
        inner_var_in_method: int = 1
        return a + b
def test_func(a: int, b: int) -> int:
    inner_var_in_func: str = "test"
    class InnerClassInFunc:
        def __init__(self, a, b):
            self.a = a
            self.b = b
        def test_method(self, a: int, b: int) -> int:
            return a + b
    def inner_func_in_func(a: int, b: int) -> int:
        return a + b
    return a + b
`
	got := Outline("python", source)
	want := "var test_var:str;func test_func(a: int, b: int) -> int;" +
		"class TestClass{func __init__(self, a, b) -> void;func test_method(self, a: int, b: int) -> int;};"
	if got != want {
		t.Errorf("Outline(python) = %q, want %q", got, want)
	}
}

func TestTypeScript(t *testing.T) {
	source := `
// This is a test comment
export const testVar: string = "test";
const innerTestVar: string = "test";
export class TestClass {
    a: number;
    b: number;
    constructor(a: number, b: number) {
        this.a = a;
        this.b = b;
    }
    testMethod(a: number, b: number): number {
        const innerConstInMethod: number = 1;
        function innerFuncInMethod(a: number, b: number): number {
            return a + b;
        }
        return a + b;
    }
}
class InnerTestClass {
    a: number;
    b: number;
}
export function testFunc(a: number, b: number) {
    const innerConstInFunc: number = 1;
    return a + b;
}
export const testFunc2 = (a: number, b: number) => {
    return a + b;
}
export const testFunc3 = (a: number, b: number): number => {
    return a + b;
}
function innerTestFunc(a: number, b: number) {
    return a + b;
}
`
	got := Outline("typescript", source)
	want := "var testVar:string;func testFunc(a: number, b: number) -> void;" +
		"func testFunc2(a: number, b: number) -> void;func testFunc3(a: number, b: number) -> number;" +
		"class TestClass{func constructor(a: number, b: number) -> void;func testMethod(a: number, b: number) -> number;" +
		"var a:number;var b:number;};"
	if got != want {
		t.Errorf("Outline(typescript) = %q, want %q", got, want)
	}
}

func TestJavaScript(t *testing.T) {
	source := `
// This is a test comment
export const testVar = "test";
const innerTestVar = "test";
export class TestClass {
    constructor(a, b) {
        this.a = a;
        this.b = b;
    }
    testMethod(a, b) {
        const innerConstInMethod = 1;
        return a + b;
    }
}
class InnerTestClass {
    constructor(a, b) {}
}
export const testFunc = function(a, b) {
    return a + b;
}
export const testFunc2 = (a, b) => {
    return a + b;
}
export const testFunc3 = (a, b) => a + b;
function innerTestFunc(a, b) {
    return a + b;
}
`
	got := Outline("javascript", source)
	want := "var testVar;var testFunc;func testFunc2(a, b) -> void;func testFunc3(a, b) -> void;" +
		"class TestClass{func constructor(a, b) -> void;func testMethod(a, b) -> void;};"
	if got != want {
		t.Errorf("Outline(javascript) = %q, want %q", got, want)
	}
}

func TestRubyNestedModules(t *testing.T) {
	source := `
top_level_var = "test"
def top_level_func
end
module A
  module B
    class C < Base
      attr_accessor :a, :b
      def initialize(a, b)
        @a = a
        @b = b
      end
      def bar
        1
      end
      private
      def baz(request, params)
        request
      end
    end
  end
end
`
	got := Outline("ruby", source)
	want := "var top_level_var;func top_level_func() -> void;" +
		"module A{};module A::B{};" +
		"class A::B::C{func initialize(a, b) -> void;func bar() -> void;private func baz(request, params) -> void;};"
	if got != want {
		t.Errorf("Outline(ruby) = %q, want %q", got, want)
	}
}

func TestPHP(t *testing.T) {
	source := `<?php

function testFunc($a, $b) {
    return $a + $b;
}

class TestClass {
    public $myPublicVariable = 0;

    public function testMethod($a, $b) {
        return $a + $b;
    }
}
`
	got := Outline("php", source)
	want := "func testFunc($a, $b) -> void;" +
		"class TestClass{func testMethod($a, $b) -> void;var public $myPublicVariable = 0;};"
	if got != want {
		t.Errorf("Outline(php) = %q, want %q", got, want)
	}
}

func TestJava(t *testing.T) {
	source := `
public class TestClass {
    public int testField = 1;
    private int innerTestField = 2;

    public int testMethod(int a, int b) {
        return a + b;
    }

    private int innerTestMethod(int a, int b) {
        return a + b;
    }
}

public enum TestEnum {
    RED,
    GREEN
}
`
	got := Outline("java", source)
	want := "class TestClass{func testMethod(int a, int b) -> int;var testField:int;};" +
		"enum TestEnum{RED;GREEN;};"
	if got != want {
		t.Errorf("Outline(java) = %q, want %q", got, want)
	}
}

func TestC(t *testing.T) {
	source := `
#include <stdio.h>

int test_var = 5;

struct TestStruct {
    int test_field;
};

int test_func(int a, int b) {
    return a + b;
}
`
	got := Outline("c", source)
	want := "var test_var:int;func test_func(int a, int b) -> void;" +
		"class TestStruct{var test_field:int;};"
	if got != want {
		t.Errorf("Outline(c) = %q, want %q", got, want)
	}
}

func TestCpp(t *testing.T) {
	source := `
int testVar = 7;

class TestClass {
public:
    int test_field;

    int testMethod(int a, int b) {
        return a + b;
    }
};

int testFunc(int a, int b) {
    return a + b;
}
`
	got := Outline("cpp", source)
	want := "var testVar:int;func testFunc(int a, int b) -> int;" +
		"class TestClass{func testMethod(int a, int b) -> int;var test_field:int;};"
	if got != want {
		t.Errorf("Outline(cpp) = %q, want %q", got, want)
	}
}

func TestLua(t *testing.T) {
	source := `
local test_var = "test"

function test_func(a, b)
    local inner_var = 1
    return a + b
end
`
	got := Outline("lua", source)
	want := "var test_var;func test_func(a, b) -> void;"
	if got != want {
		t.Errorf("Outline(lua) = %q, want %q", got, want)
	}
}

func TestZig(t *testing.T) {
	source := `
pub const test_var: u32 = 42;
const inner_var: u32 = 1;

pub fn testFunc(a: u32, b: u32) void {
    _ = a;
    _ = b;
}

fn innerFunc() void {}

pub const TestStruct = struct {
    pub fn testMethod(a: u32) void {
        _ = a;
    }
};

pub const TestColour = enum {
    red,
    green,
};

pub const TestValue = union {
    int_val: i64,
    float_val: f64,
};
`
	got := Outline("zig", source)
	wantParts := []string{
		"var test_var:u32;",
		"func testFunc(a: u32, b: u32) -> void;",
		"class TestStruct{func testMethod(a: u32) -> void;};",
		"enum TestColour{red;green;};",
		"union TestValue{int_val",
		"float_val",
	}
	for _, part := range wantParts {
		if !strings.Contains(got, part) {
			t.Errorf("Outline(zig) missing %q: %q", part, got)
		}
	}
	// Enum and union members must never double as class properties.
	for _, part := range []string{"class TestColour", "class TestValue", "inner_var", "innerFunc"} {
		if strings.Contains(got, part) {
			t.Errorf("Outline(zig) unexpectedly contains %q: %q", part, got)
		}
	}
}

func TestScala(t *testing.T) {
	source := `
class TestClass(a: Int) {
  def classMethod(x: Int): Int = x
}

object TestObject {
  val testVal: Int = 1

  def testMethod(a: Int, b: Int): Int = a + b
}
`
	got := Outline("scala", source)
	want := "class TestClass{func classMethod(x: Int) -> Int;};" +
		"class TestObject{func testMethod(a: Int, b: Int) -> Int;var testVal:Int;};"
	if got != want {
		t.Errorf("Outline(scala) = %q, want %q", got, want)
	}
}

func TestSwift(t *testing.T) {
	source := `
import Foundation

public class TestClass {
    public func testMethod() {
    }

    private func hiddenMethod() {
    }
}

public func testFunc() {
}
`
	got := Outline("swift", source)
	want := "func testFunc() -> void;class TestClass{func testMethod() -> void;};"
	if got != want {
		t.Errorf("Outline(swift) = %q, want %q", got, want)
	}
}

func TestElixir(t *testing.T) {
	source := `
defmodule TestModule do
  def test_method(a, b) do
    a + b
  end

  defp helper(a) do
    a
  end
end
`
	got := Outline("elixir", source)
	want := "class TestModule{func test_method(a, b);func helper(a);};"
	if got != want {
		t.Errorf("Outline(elixir) = %q, want %q", got, want)
	}
}

func TestCSharp(t *testing.T) {
	source := `
public class TestClass
{
    public int TestField = 1;
    private int hiddenField = 2;

    public int TestMethod(int a, int b)
    {
        return a + b;
    }

    private int HiddenMethod(int a)
    {
        return a;
    }
}

public record TestRecord(int A, int B);
`
	got := Outline("csharp", source)
	want := "class TestClass{func TestMethod(int a, int b) -> int;var TestField:int;};" +
		"class TestRecord{func TestRecord(int A, int B) -> TestRecord;};"
	if got != want {
		t.Errorf("Outline(csharp) = %q, want %q", got, want)
	}
}

func TestUnknownLanguage(t *testing.T) {
	if got := Outline("unknown", "print('hi')"); got != "" {
		t.Errorf("Outline(unknown) = %q, want empty", got)
	}
}

func TestDeterminism(t *testing.T) {
	first := Outline("rust", rustSource)
	for i := 0; i < 5; i++ {
		if got := Outline("rust", rustSource); got != first {
			t.Fatalf("run %d produced %q, first run produced %q", i, got, first)
		}
	}
}

func TestOutlineShape(t *testing.T) {
	for _, lang := range []string{"rust", "go", "python", "ruby"} {
		var source string
		switch lang {
		case "rust":
			source = rustSource
		case "go":
			source = "package main\n\nfunc Exported() {}\n"
		case "python":
			source = "def visible(a):\n    return a\n"
		case "ruby":
			source = "def visible(a)\n  a\nend\n"
		}
		got := Outline(lang, source)
		if got == "" {
			t.Errorf("Outline(%s) unexpectedly empty", lang)
			continue
		}
		if strings.Contains(got, "\n") {
			t.Errorf("Outline(%s) contains a newline: %q", lang, got)
		}
		if !strings.HasSuffix(got, ";") {
			t.Errorf("Outline(%s) does not end with ';': %q", lang, got)
		}
	}
}

func TestRustVisibilityMonotonicity(t *testing.T) {
	pub := "pub fn visible(a: u32) -> u32 { a }\n"
	priv := "fn visible(a: u32) -> u32 { a }\n"
	if got := Outline("rust", pub); !strings.Contains(got, "func visible") {
		t.Errorf("pub fn missing from outline: %q", got)
	}
	if got := Outline("rust", priv); got != "" {
		t.Errorf("private fn must not appear: %q", got)
	}
}

func TestGoCaseInvariant(t *testing.T) {
	source := `
package main

const exportedNot = 1

type hidden struct {
	Field string
}

func lower() {}
`
	if got := Outline("go", source); got != "" {
		t.Errorf("lowercase-only Go source must outline to empty, got %q", got)
	}
}

func TestSyntaxErrorTolerance(t *testing.T) {
	source := "package main\n\nfunc Good() {}\n\nfunc broken( {\n"
	got := Outline("go", source)
	if !strings.Contains(got, "func Good() -> void;") {
		t.Errorf("outline must still include declarations outside the damaged region: %q", got)
	}
}

func TestIdentifyLanguage(t *testing.T) {
	tests := []struct {
		path string
		lang string
		err  bool
	}{
		{"src/lib.rs", "rust", false},
		{"a/b/app.py", "python", false},
		{"index.tsx", "typescript", false},
		{"main.go", "go", false},
		{"mod.zig", "zig", false},
		{"Service.cs", "csharp", false},
		{"notes.txt", "", true},
		{"Makefile", "", true},
	}
	for _, tt := range tests {
		lang, err := IdentifyLanguage(tt.path)
		if tt.err {
			if err == nil {
				t.Errorf("IdentifyLanguage(%s): expected error, got %q", tt.path, lang)
			}
			continue
		}
		if err != nil {
			t.Errorf("IdentifyLanguage(%s): unexpected error: %v", tt.path, err)
		} else if lang != tt.lang {
			t.Errorf("IdentifyLanguage(%s) = %s, want %s", tt.path, lang, tt.lang)
		}
	}
}
