//go:build windows

package webgpu

// WGSL compute shaders for ROI average align.
// Using string constants instead of embed for simplicity.

// roiAlignCommonWGSL holds the uniform layout, geometry derivation and the
// bilinear sampler shared by forward and backward. Both kernels derive the
// sample points through the same functions.
const roiAlignCommonWGSL = `
struct Params {
    num_rois: u32,
    channels: u32,
    height: u32,
    width: u32,
    pooled_h: u32,
    pooled_w: u32,
    ratio_h: u32,
    ratio_w: u32,
    spatial_scale: f32,
    total: u32,
    stride: u32,
    _pad: u32,
}

struct Geometry {
    start_h: f32,
    start_w: f32,
    bin_h: f32,
    bin_w: f32,
    grid_h: i32,
    grid_w: i32,
    count: f32,
}

struct Bilinear {
    ok: bool,
    y_low: i32,
    x_low: i32,
    y_high: i32,
    x_high: i32,
    w1: f32,
    w2: f32,
    w3: f32,
    w4: f32,
}

fn roi_geometry(n: u32) -> Geometry {
    var g: Geometry;
    let scale = params.spatial_scale;
    g.start_h = rois[n * 4u + 0u] * scale;
    g.start_w = rois[n * 4u + 1u] * scale;
    let end_h = rois[n * 4u + 2u] * scale;
    let end_w = rois[n * 4u + 3u] * scale;

    // Force malformed ROIs to be 1x1
    let roi_h = max(end_h - g.start_h, 1.0);
    let roi_w = max(end_w - g.start_w, 1.0);
    g.bin_h = roi_h / f32(params.pooled_h);
    g.bin_w = roi_w / f32(params.pooled_w);

    g.grid_h = i32(params.ratio_h);
    if (g.grid_h == 0) {
        g.grid_h = max(i32(ceil(g.bin_h)), 1);
    }
    g.grid_w = i32(params.ratio_w);
    if (g.grid_w == 0) {
        g.grid_w = max(i32(ceil(g.bin_w)), 1);
    }
    g.count = f32(g.grid_h * g.grid_w);
    return g;
}

fn sample_y(g: Geometry, ph: u32, iy: i32) -> f32 {
    return g.start_h + f32(ph) * g.bin_h + (f32(iy) + 0.5) * g.bin_h / f32(g.grid_h);
}

fn sample_x(g: Geometry, pw: u32, ix: i32) -> f32 {
    return g.start_w + f32(pw) * g.bin_w + (f32(ix) + 0.5) * g.bin_w / f32(g.grid_w);
}

fn resolve(y_in: f32, x_in: f32, height: i32, width: i32) -> Bilinear {
    var r: Bilinear;
    r.ok = false;
    var y = y_in;
    var x = x_in;
    if (y < -1.0 || y > f32(height) || x < -1.0 || x > f32(width)) {
        return r;
    }

    if (y <= 0.0) {
        y = 0.0;
    }
    if (x <= 0.0) {
        x = 0.0;
    }

    r.y_low = i32(y);
    r.x_low = i32(x);

    if (r.y_low >= height - 1) {
        r.y_low = height - 1;
        r.y_high = r.y_low;
        y = f32(r.y_low);
    } else {
        r.y_high = r.y_low + 1;
    }

    if (r.x_low >= width - 1) {
        r.x_low = width - 1;
        r.x_high = r.x_low;
        x = f32(r.x_low);
    } else {
        r.x_high = r.x_low + 1;
    }

    let ly = y - f32(r.y_low);
    let lx = x - f32(r.x_low);
    let hy = 1.0 - ly;
    let hx = 1.0 - lx;

    r.w1 = hy * hx;
    r.w2 = hy * lx;
    r.w3 = ly * hx;
    r.w4 = ly * lx;
    r.ok = true;
    return r;
}
`

// roiAlignForwardShader computes one output bin per invocation.
const roiAlignForwardShader = `
@group(0) @binding(0) var<storage, read> input: array<f32>;
@group(0) @binding(1) var<storage, read> rois: array<f32>;
@group(0) @binding(2) var<storage, read> roi_indices: array<i32>;
@group(0) @binding(3) var<storage, read_write> output: array<f32>;
@group(0) @binding(4) var<uniform> params: Params;
` + roiAlignCommonWGSL + `
@compute @workgroup_size(256)
fn main(@builtin(global_invocation_id) global_id: vec3<u32>) {
    let i = global_id.x + global_id.y * params.stride;
    if (i >= params.total) {
        return;
    }

    let pw = i % params.pooled_w;
    let ph = (i / params.pooled_w) % params.pooled_h;
    let c = (i / params.pooled_w / params.pooled_h) % params.channels;
    let n = i / params.pooled_w / params.pooled_h / params.channels;

    let b = u32(roi_indices[n]);
    let g = roi_geometry(n);
    let height = i32(params.height);
    let width = i32(params.width);
    let offset = (b * params.channels + c) * params.height * params.width;

    var sum: f32 = 0.0;
    for (var iy: i32 = 0; iy < g.grid_h; iy++) {
        let y = sample_y(g, ph, iy);
        for (var ix: i32 = 0; ix < g.grid_w; ix++) {
            let p = resolve(y, sample_x(g, pw, ix), height, width);
            if (!p.ok) {
                continue;
            }
            let v1 = input[offset + u32(p.y_low * width + p.x_low)];
            let v2 = input[offset + u32(p.y_low * width + p.x_high)];
            let v3 = input[offset + u32(p.y_high * width + p.x_low)];
            let v4 = input[offset + u32(p.y_high * width + p.x_high)];
            sum += p.w1 * v1 + p.w2 * v2 + p.w3 * v3 + p.w4 * v4;
        }
    }
    output[i] = sum / g.count;
}
`

// roiAlignBackwardShader scatters one output-gradient bin per invocation.
// WGSL has no float atomics, so accumulation is a compare-exchange loop on
// the bit pattern of each f32 cell.
const roiAlignBackwardShader = `
@group(0) @binding(0) var<storage, read> grad_output: array<f32>;
@group(0) @binding(1) var<storage, read> rois: array<f32>;
@group(0) @binding(2) var<storage, read> roi_indices: array<i32>;
@group(0) @binding(3) var<storage, read_write> grad_input: array<atomic<u32>>;
@group(0) @binding(4) var<uniform> params: Params;
` + roiAlignCommonWGSL + `
fn atomic_add_f32(idx: u32, value: f32) {
    var old = atomicLoad(&grad_input[idx]);
    loop {
        let updated = bitcast<u32>(bitcast<f32>(old) + value);
        let r = atomicCompareExchangeWeak(&grad_input[idx], old, updated);
        if (r.exchanged) {
            break;
        }
        old = r.old_value;
    }
}

@compute @workgroup_size(256)
fn main(@builtin(global_invocation_id) global_id: vec3<u32>) {
    let i = global_id.x + global_id.y * params.stride;
    if (i >= params.total) {
        return;
    }

    let pw = i % params.pooled_w;
    let ph = (i / params.pooled_w) % params.pooled_h;
    let c = (i / params.pooled_w / params.pooled_h) % params.channels;
    let n = i / params.pooled_w / params.pooled_h / params.channels;

    let b = u32(roi_indices[n]);
    let g = roi_geometry(n);
    let height = i32(params.height);
    let width = i32(params.width);
    let offset = (b * params.channels + c) * params.height * params.width;
    let gy = grad_output[i];

    for (var iy: i32 = 0; iy < g.grid_h; iy++) {
        let y = sample_y(g, ph, iy);
        for (var ix: i32 = 0; ix < g.grid_w; ix++) {
            let p = resolve(y, sample_x(g, pw, ix), height, width);
            if (!p.ok) {
                continue;
            }
            if (p.x_low < 0 || p.x_high < 0 || p.y_low < 0 || p.y_high < 0) {
                continue;
            }
            atomic_add_f32(offset + u32(p.y_low * width + p.x_low), gy * p.w1 / g.count);
            atomic_add_f32(offset + u32(p.y_low * width + p.x_high), gy * p.w2 / g.count);
            atomic_add_f32(offset + u32(p.y_high * width + p.x_low), gy * p.w3 / g.count);
            atomic_add_f32(offset + u32(p.y_high * width + p.x_high), gy * p.w4 / g.count);
        }
    }
}
`
