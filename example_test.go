package segmap

import "fmt"

func ExampleTree_Get() {
	t := New()
	t.Put([]byte("a"), []byte("1"))
	t.Put([]byte("a.b"), []byte("2"))
	for _, key := range []string{"a", "a.b", "a.x"} {
		v, ok, _ := t.Get([]byte(key))
		if ok {
			fmt.Printf("%s=%s\n", key, v)
		} else {
			fmt.Printf("%s absent\n", key)
		}
	}
	// Output:
	// a=1
	// a.b=2
	// a.x absent
}

func ExampleTree_Size() {
	t := New()
	t.Put([]byte("cat"), []byte("meow"))
	t.Put([]byte("cat"), []byte("purr"))
	t.Put([]byte("dog"), []byte("woof"))
	fmt.Println(t.Size())
	// Output:
	// 2
}
