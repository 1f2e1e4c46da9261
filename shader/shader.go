package shader

// All stages are written against WebGL2 GLSL ES 3.00. Desktop devices run
// them through the translator before handing them to the driver.

// vertexShaderSource expands a 4-vertex triangle strip into a full-screen quad
// without any vertex arrays: gl_VertexID 0..3 maps to the corners
// (-1,-1) (1,-1) (-1,1) (1,1).
const vertexShaderSource = `#version 300 es
precision highp float;

out vec2 uv;

void main() {
    vec2 corner = vec2(float(gl_VertexID & 1), float((gl_VertexID >> 1) & 1));
    uv = corner;
    gl_Position = vec4(corner * 2.0 - 1.0, 0.0, 1.0);
}
`

// fragmentPreamble is prepended to every caller-supplied fragment source.
// It declares the interpolated uv coordinate and the output color.
const fragmentPreamble = `#version 300 es
precision highp float;
precision highp int;
precision highp sampler2D;

in vec2 uv;
out vec4 fragColor;

`

// QuadVertexCount is the number of triangle strip vertices the vertex stage
// turns into a full-screen quad.
const QuadVertexCount = 4

// VertexShader returns the built-in full-screen-quad vertex stage.
func VertexShader() string {
	return vertexShaderSource
}

// GetFragmentShader combines the preamble with the caller's fragment code.
func GetFragmentShader(user string) string {
	return fragmentPreamble + user
}
